package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Display statistics about your tasks: counts by status, priority and
category, the overall completion rate and a seven-day completion series.

Examples:
  taskmaster stats
  taskmaster stats --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		stats := app.Tasks.Stats()
		if structured() {
			return printStructured(stats)
		}

		fmt.Println("📊 Task Statistics:")
		fmt.Println()
		fmt.Printf("Total tasks:       %d\n", stats.Total)
		fmt.Printf("Completed:         %d\n", stats.Completed)
		fmt.Printf("Pending:           %d\n", stats.Pending)
		fmt.Printf("In progress:       %d\n", stats.InProgress)
		fmt.Printf("Overdue:           %d\n", stats.Overdue)
		fmt.Printf("Due today:         %d\n", stats.Today)
		fmt.Printf("Upcoming:          %d\n", stats.Upcoming)
		fmt.Printf("Completion rate:   %d%%\n", stats.CompletionRate)

		if verbose {
			fmt.Println()
			fmt.Println("By priority:")
			for _, priority := range types.Priorities() {
				fmt.Printf("  %-8s %d\n", priority, stats.ByPriority[priority])
			}
			fmt.Println("By category:")
			for category, count := range stats.ByCategory {
				fmt.Printf("  %-10s %d\n", category, count)
			}
			fmt.Println("Last seven days:")
			for _, day := range stats.Weekly {
				fmt.Printf("  %s  %d completed\n", day.Weekday, day.Completed)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
