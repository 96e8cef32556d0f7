package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as JSON",
	Long: `Export tasks, projects, categories and settings as a single JSON
document. By default the export is written to stdout.

Examples:
  taskmaster export                        # Write to stdout
  taskmaster export --output backup.json   # Write to a file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		data, err := app.Manager.Export()
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if exportOutput == "" {
			fmt.Println(string(data))
			return nil
		}

		if dir := filepath.Dir(exportOutput); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(exportOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}

		absPath, err := filepath.Abs(exportOutput)
		if err != nil {
			absPath = exportOutput
		}
		fmt.Printf("✅ Export written to %s (%d bytes)\n", absPath, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path for the export file")
	rootCmd.AddCommand(exportCmd)
}
