package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON export",
	Long: `Import tasks, projects, categories and settings from a JSON export
file. The payload is validated first; a failed validation leaves the current
data untouched. A backup of the current data is taken before the import.

Examples:
  taskmaster import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Manager.Import(raw); err != nil {
			return err
		}

		fmt.Printf("✅ Import completed: %d tasks, %d projects\n",
			len(app.Tasks.List()), len(app.Projects.List()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
