package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataPath     string
	outputFormat string
	verbose      bool

	cfg = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "taskmaster",
	Short: "A task and project manager with a local JSON store",
	Long: `Taskmaster is a command-line task and project manager backed by a
single local JSON file.

Features:
- Tasks with priorities, categories, due dates, tags and subtasks
- Projects with templates, progress tracking and task statistics
- Due-date notifications with an optional watch mode
- Full JSON export, validated import and rotating backups

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TASKMASTER_*)
3. Config file (~/.config/taskmaster/config.yaml)

Examples:
  taskmaster add "Buy groceries"
  taskmaster list --today
  taskmaster complete 3f8a...
  taskmaster project add "Website Redesign" --template web-development
  taskmaster export --output backup.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		dataPath = cfg.GetString("data")
		outputFormat = cfg.GetString("format")
		verbose = cfg.GetBool("verbose")
		return initLogging(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", defaultDataPath(), "Path to the taskmaster database file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cfg.SetConfigName("config")
	cfg.SetConfigType("yaml")
	cfg.AddConfigPath(configDir())
	cfg.AddConfigPath(".")
	cfg.AutomaticEnv()
	cfg.SetEnvPrefix("TASKMASTER")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = cfg.ReadInConfig()
}

// defaultDataPath places the database under the XDG data directory.
func defaultDataPath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "taskmaster", "taskmaster.json")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "taskmaster", "taskmaster.json")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Application Support", "taskmaster", "taskmaster.json")
	}
	return filepath.Join(homeDir, ".local", "share", "taskmaster", "taskmaster.json")
}

func configDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskmaster")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "taskmaster")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
