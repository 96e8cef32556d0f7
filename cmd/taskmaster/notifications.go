package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	notificationsClear  bool
	notificationsUnread bool
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show notifications",
	Long: `Show the notification list, newest first. Deadline notifications are
raised by 'taskmaster watch' or whenever a command touches the store.

Examples:
  taskmaster notifications
  taskmaster notifications --unread
  taskmaster notifications --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if notificationsClear {
			app.Evaluator.ClearAll()
			fmt.Println("🗑️  Notifications cleared")
			return nil
		}

		app.Evaluator.Tick()
		notifications := app.Evaluator.Notifications()
		if notificationsUnread {
			unread := notifications[:0]
			for _, n := range notifications {
				if !n.Read {
					unread = append(unread, n)
				}
			}
			notifications = unread
		}

		if structured() {
			return printStructured(notifications)
		}
		if len(notifications) == 0 {
			fmt.Println("  (no notifications)")
			return nil
		}
		for _, n := range notifications {
			marker := " "
			if !n.Read {
				marker = "*"
			}
			fmt.Printf("%s %s %s: %s\n", marker, n.Icon, n.Title, n.Message)
			if verbose {
				fmt.Printf("     ID: %s  Task: %s  At: %s\n", n.ID, n.TaskID, n.Timestamp.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		app.Evaluator.MarkRead(args[0])
		fmt.Printf("✅ Marked read: %s\n", args[0])
		return nil
	},
}

func init() {
	notificationsCmd.Flags().BoolVar(&notificationsClear, "clear", false, "Clear all notifications")
	notificationsCmd.Flags().BoolVar(&notificationsUnread, "unread", false, "Show only unread notifications")
	notificationsCmd.AddCommand(notificationsReadCmd)
	rootCmd.AddCommand(notificationsCmd)
}
