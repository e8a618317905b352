// Package commands wires the claco CLI surface.
package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/project"
	"github.com/kaichen/claco/internal/tui"
)

var verbose bool

// NewRootCommand creates the root command. Running claco with no
// subcommand opens the interactive session browser.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claco",
		Short: "Inspect Claude Code's local session logs",
		Long: `claco reads the session history Claude Code keeps under ~/.claude and
reconstructs project and conversation history from it. Without a
subcommand it opens an interactive browser for resuming past sessions.`,
		SilenceUsage: true,
		RunE:         runBrowse,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show skipped-line diagnostics")

	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewSessionCommand())
	rootCmd.AddCommand(NewProjectsCommand())
	rootCmd.AddCommand(NewLiveCommand())
	rootCmd.AddCommand(NewCommandsCommand())
	rootCmd.AddCommand(NewHooksCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
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
	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	selected, err := tui.Run(ix, projects)
	if err != nil {
		return err
	}
	if selected == nil {
		return nil
	}
	return resumeSession(selected.SessionID, selected.ProjectPath)
}

// resumeSession re-attaches the Claude CLI to a past session from the
// project's own directory.
func resumeSession(sessionID, projectPath string) error {
	if projectPath != "" && projectPath != "Unknown" {
		if err := os.Chdir(projectPath); err != nil {
			return fmt.Errorf("failed to change to project directory %s: %w", projectPath, err)
		}
	}

	resume := exec.Command("claude", "--resume", sessionID)
	resume.Stdin = os.Stdin
	resume.Stdout = os.Stdout
	resume.Stderr = os.Stderr
	return resume.Run()
}
