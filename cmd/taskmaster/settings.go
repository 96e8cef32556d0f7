package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	settingsTheme    string
	settingsView     string
	settingsAutoSave string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show the current settings, or change them with flags. Settings also
hold the defaults applied to new tasks.

Examples:
  taskmaster settings
  taskmaster settings --theme dark
  taskmaster settings --view kanban --auto-save off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		settings := app.Settings.Get()
		changed := false
		if settingsTheme != "" {
			settings.Theme = settingsTheme
			changed = true
		}
		if settingsView != "" {
			settings.DefaultView = settingsView
			changed = true
		}
		if settingsAutoSave != "" {
			switch settingsAutoSave {
			case "on":
				settings.AutoSave = true
			case "off":
				settings.AutoSave = false
			default:
				return fmt.Errorf("invalid auto-save value %q (use on or off)", settingsAutoSave)
			}
			changed = true
		}
		if changed {
			app.Settings.Set(settings)
			fmt.Println("✅ Settings updated")
			return nil
		}

		if structured() {
			return printStructured(settings)
		}
		fmt.Printf("Theme:         %s\n", settings.Theme)
		fmt.Printf("Default view:  %s\n", settings.DefaultView)
		fmt.Printf("Auto save:     %t\n", settings.AutoSave)
		fmt.Printf("Task defaults: priority=%s category=%s\n",
			settings.TaskDefaults.Priority, settings.TaskDefaults.Category)
		fmt.Printf("Notifications: enabled=%t reminders=%t\n",
			settings.Notifications.Enabled, settings.Notifications.Reminders)
		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsTheme, "theme", "", "UI theme (light, dark)")
	settingsCmd.Flags().StringVar(&settingsView, "view", "", "Default view (list, kanban, calendar)")
	settingsCmd.Flags().StringVar(&settingsAutoSave, "auto-save", "", "Auto save (on, off)")
	rootCmd.AddCommand(settingsCmd)
}
