package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var (
	projectTemplate    string
	projectDescription string
	projectStatus      string
	projectPriority    string
	projectStart       string
	projectEnd         string
	projectListAll     bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Manage projects: named task groupings with their own lifecycle and
progress tracking.

Examples:
  taskmaster project add "Website Redesign"
  taskmaster project add "Launch" --template product-launch
  taskmaster project list
  taskmaster project stats 7b3c...
  taskmaster project archive 7b3c...
  taskmaster project templates`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Long: `Create a project. With --template the project is seeded with the
template's starter tasks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		draft := store.ProjectDraft{
			Name:        args[0],
			Description: projectDescription,
		}
		if projectStatus != "" {
			status := types.ProjectStatus(projectStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q (use planning, active, on-hold or completed)", projectStatus)
			}
			draft.Status = status
		}
		if projectPriority != "" {
			priority := types.Priority(projectPriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", projectPriority)
			}
			draft.Priority = priority
		}
		if projectStart != "" {
			start, err := parseDate(projectStart)
			if err != nil {
				return err
			}
			draft.StartDate = &start
		}
		if projectEnd != "" {
			end, err := parseDate(projectEnd)
			if err != nil {
				return err
			}
			draft.EndDate = &end
		}

		var project types.Project
		if projectTemplate != "" {
			project, err = app.Projects.CreateFromTemplate(projectTemplate, draft)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}
		} else {
			project = app.Projects.Create(draft)
		}

		if structured() {
			return printStructured(project)
		}
		fmt.Printf("✅ Project created: %s\n", project.Name)
		if verbose {
			fmt.Printf("   ID: %s\n", project.ID)
			fmt.Printf("   Color: %s\n", project.Color)
			fmt.Printf("   Status: %s\n", project.Status)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		var projects []types.Project
		if projectListAll {
			projects = app.Projects.List()
		} else {
			archived := false
			projects = app.Projects.Filter(store.ProjectFilter{Archived: &archived})
		}

		if structured() {
			return printStructured(projects)
		}
		if len(projects) == 0 {
			fmt.Println("  (no projects found)")
			return nil
		}
		for _, project := range projects {
			marker := ""
			if project.Archived {
				marker = " (archived)"
			}
			fmt.Printf("📁 %s [%s] %d%%%s\n", project.Name, project.Status, project.Progress, marker)
			if verbose {
				fmt.Printf("     ID: %s", project.ID)
				if len(project.TeamMembers) > 0 {
					fmt.Printf("  Team: %s", strings.Join(project.TeamMembers, ", "))
				}
				fmt.Println()
			}
		}
		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <project-id>",
	Short: "Delete a project",
	Long: `Delete a project. Tasks attached to it are kept and detached from
the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		project, err := app.Projects.Delete(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		if structured() {
			return printStructured(project)
		}
		fmt.Printf("🗑️  Project deleted: %s\n", project.Name)
		return nil
	},
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats <project-id>",
	Short: "Show task statistics for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		stats := app.Projects.Stats(args[0])
		if stats == nil {
			return fmt.Errorf("unknown project %q", args[0])
		}
		if structured() {
			return printStructured(stats)
		}

		fmt.Println("📊 Project Statistics:")
		fmt.Println()
		fmt.Printf("Total tasks:       %d\n", stats.TotalTasks)
		fmt.Printf("Completed:         %d\n", stats.CompletedTasks)
		fmt.Printf("Pending:           %d\n", stats.PendingTasks)
		fmt.Printf("In progress:       %d\n", stats.InProgressTasks)
		fmt.Printf("Overdue:           %d\n", stats.OverdueTasks)
		fmt.Printf("Completion rate:   %d%%\n", stats.CompletionRate)
		fmt.Printf("Estimated hours:   %.1f\n", stats.EstimatedHours)
		fmt.Printf("Actual hours:      %.1f\n", stats.ActualHours)
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		project, err := app.Projects.Archive(args[0])
		if err != nil {
			return fmt.Errorf("failed to archive project: %w", err)
		}
		if structured() {
			return printStructured(project)
		}
		fmt.Printf("📦 Archived: %s\n", project.Name)
		return nil
	},
}

var projectUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <project-id>",
	Short: "Restore an archived project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		project, err := app.Projects.Unarchive(args[0])
		if err != nil {
			return fmt.Errorf("failed to unarchive project: %w", err)
		}
		if structured() {
			return printStructured(project)
		}
		fmt.Printf("📁 Restored: %s\n", project.Name)
		return nil
	},
}

var projectTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available project templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := store.TemplateNames()
		if structured() {
			return printStructured(names)
		}
		fmt.Println("Available templates:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectTemplate, "template", "", "Seed the project from a template")
	projectAddCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectAddCmd.Flags().StringVar(&projectStatus, "status", "", "Status (planning, active, on-hold, completed)")
	projectAddCmd.Flags().StringVar(&projectPriority, "priority", "", "Priority (low, medium, high, urgent)")
	projectAddCmd.Flags().StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD)")
	projectAddCmd.Flags().StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
	projectListCmd.Flags().BoolVar(&projectListAll, "all", false, "Include archived projects")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectStatsCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectUnarchiveCmd)
	projectCmd.AddCommand(projectTemplatesCmd)
	rootCmd.AddCommand(projectCmd)
}
