package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/history"
	"github.com/kaichen/claco/internal/jsonl"
	"github.com/kaichen/claco/internal/project"
	"github.com/kaichen/claco/internal/render"
)

// NewHistoryCommand creates the history command: every end-user message
// for the project matching the caller's working directory.
func NewHistoryCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your input messages for the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(sessionID)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "",
		"Show messages from a specific session ID")
	return cmd
}

func runHistory(sessionID string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	ix, err := project.NewIndex()
	if err != nil {
		return err
	}

	proj, err := ix.FindProjectForCwd(cwd)
	if err != nil {
		if errors.Is(err, project.ErrNoLogRoot) {
			fmt.Println("No Claude projects directory found")
			return nil
		}
		if errors.Is(err, project.ErrProjectNotFound) {
			fmt.Printf("No Claude project found for current directory: %s\n", cwd)
			return nil
		}
		return err
	}

	ids := proj.SessionIDs
	if sessionID != "" {
		found := false
		for _, id := range ids {
			if id == sessionID {
				found = true
				break
			}
		}
		if !found {
			fmt.Printf("Session not found: %s\n", sessionID)
			return nil
		}
		ids = []string{sessionID}
	}

	skipped := 0
	mismatched := 0
	for _, id := range ids {
		path, err := ix.SessionFile(proj, id)
		if err != nil {
			continue
		}
		r, err := jsonl.OpenSession(path)
		if err != nil {
			return err
		}

		for _, entry := range history.Filter(r) {
			fmt.Println(render.Line(entry.Record.Timestamp, entry.Text))
		}
		skipped += r.Skipped()
		mismatched += r.Mismatched()
		r.Close()
	}

	if verbose && skipped > 0 {
		fmt.Fprintf(os.Stderr, "(%d undecodable lines skipped)\n", skipped)
	}
	if verbose && mismatched > 0 {
		fmt.Fprintf(os.Stderr, "(%d records with a sessionId not matching their file)\n", mismatched)
	}
	return nil
}
