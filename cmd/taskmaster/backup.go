package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage data backups",
	Long: `Manage the rotating set of data backups. A backup is also taken
automatically before every import. At most five backups are kept; the oldest
is evicted when a new one would exceed the limit.

Examples:
  taskmaster backup create
  taskmaster backup list
  taskmaster backup restore 9c21...
  taskmaster backup rm 9c21...`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the current data set",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := app.Manager.CreateBackup()
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		fmt.Printf("✅ Backup created: %s\n", id)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List retained backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		backups := app.Manager.Backups()
		if structured() {
			return printStructured(backups)
		}
		if len(backups) == 0 {
			fmt.Println("  (no backups)")
			return nil
		}
		for _, backup := range backups {
			fmt.Printf("%s  %s  (%d bytes)\n", backup.ID, backup.Date.Format("2006-01-02 15:04:05"), len(backup.Data))
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Manager.Restore(args[0]); err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}
		fmt.Printf("✅ Restored backup %s\n", args[0])
		return nil
	},
}

var backupRmCmd = &cobra.Command{
	Use:   "rm <backup-id>",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Manager.DeleteBackup(args[0]); err != nil {
			return fmt.Errorf("failed to delete backup: %w", err)
		}
		fmt.Printf("🗑️  Backup deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupRmCmd)
	rootCmd.AddCommand(backupCmd)
}
