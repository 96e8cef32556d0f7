package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/notify"
	"github.com/arthur-debert/taskmaster/types"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for deadline notifications",
	Long: `Run the notification evaluator in the foreground, printing new
notifications as they are raised. Stop with Ctrl-C.

Examples:
  taskmaster watch
  taskmaster watch --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sink := notify.SinkFunc(func(n types.Notification) {
			fmt.Printf("%s %s %s: %s\n", n.Timestamp.Format("15:04:05"), n.Icon, n.Title, n.Message)
		})
		app, err := newApp(notify.WithSink(sink))
		if err != nil {
			return err
		}
		defer app.Close()

		fmt.Printf("👀 Watching for notifications every %s (Ctrl-C to stop)\n", watchInterval)
		app.Evaluator.Start(watchInterval)
		defer app.Evaluator.Stop()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		<-interrupt
		fmt.Println("\nStopped.")
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", notify.DefaultInterval, "Evaluation interval")
	rootCmd.AddCommand(watchCmd)
}
