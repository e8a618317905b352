package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/project"
	"github.com/kaichen/claco/internal/stats"
)

// NewProjectsCommand creates the projects command.
func NewProjectsCommand() *cobra.Command {
	var withStats bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List all projects with their sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(withStats)
		},
	}

	cmd.Flags().BoolVar(&withStats, "stats", false,
		"Include aggregate activity statistics (scans every session)")
	return cmd
}

func runProjects(withStats bool) error {
	ix, err := project.NewIndex()
	if err != nil {
		return err
	}

	projects, err := ix.ListProjects()
	if err != nil {
		if errors.Is(err, project.ErrNoLogRoot) {
			fmt.Println("No Claude projects directory found")
			return nil
		}
		return fmt.Errorf("failed to list projects: %w", err)
	}

	var aggregates map[string]stats.ProjectStats
	if withStats {
		aggregates, err = stats.ProjectAggregates()
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}
	}

	for _, p := range projects {
		fmt.Printf("Project: %s\n", p.Path)
		fmt.Printf("  Sessions: %v\n", p.SessionIDs)
		if agg, ok := aggregates[p.Path]; ok {
			fmt.Printf("  Session count: %d\n", agg.SessionCount)
			if !agg.LastActivity.IsZero() {
				fmt.Printf("  Last activity: %s\n", agg.LastActivity.Format("2006-01-02 15:04"))
			}
		}
		fmt.Println()
	}
	return nil
}
