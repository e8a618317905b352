package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/claude"
	"github.com/kaichen/claco/internal/live"
)

// NewLiveCommand creates the live command: sessions with an attached,
// currently-running editor.
func NewLiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "List all active Claude sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive()
		},
	}
}

func runLive() error {
	dir, err := claude.IDEDir()
	if err != nil {
		return err
	}

	sessions, skipped, err := live.ScanDir(dir)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No active Claude sessions found")
		return nil
	}

	for _, s := range sessions {
		fmt.Println("Active session:")
		fmt.Printf("  PID: %d\n", s.PID)
		fmt.Printf("  IDE: %s\n", s.IDEName)
		fmt.Printf("  Workspaces: %v\n", s.WorkspaceFolders)
		fmt.Println()
	}

	if verbose && skipped > 0 {
		fmt.Fprintf(os.Stderr, "(%d unreadable lock files skipped)\n", skipped)
	}
	return nil
}
