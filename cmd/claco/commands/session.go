package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/history"
	"github.com/kaichen/claco/internal/jsonl"
	"github.com/kaichen/claco/internal/project"
	"github.com/kaichen/claco/internal/render"
	"github.com/kaichen/claco/pkg/models"
)

// NewSessionCommand creates the session command: metadata for one
// session, defaulting to the most recently active one.
func NewSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session [session-id]",
		Short: "Display session info by ID (defaults to most recent session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runSession(id)
		},
	}
}

func runSession(sessionID string) error {
	ix, err := project.NewIndex()
	if err != nil {
		return err
	}

	var session models.Session
	if sessionID == "" {
		session, err = ix.MostRecentSession()
		if err != nil {
			if errors.Is(err, project.ErrNoLogRoot) {
				fmt.Println("No Claude projects directory found")
				return nil
			}
			if errors.Is(err, project.ErrNoSessions) {
				fmt.Println("No sessions found")
				return nil
			}
			return err
		}
		fmt.Printf("Using most recent session: %s\n", session.SessionID)
	} else {
		session, err = ix.FindSession(sessionID)
		if err != nil {
			if errors.Is(err, project.ErrNoLogRoot) {
				fmt.Println("No Claude projects directory found")
				return nil
			}
			if errors.Is(err, project.ErrSessionNotFound) {
				fmt.Printf("Session not found: %s\n", sessionID)
				return nil
			}
			return err
		}
	}

	fmt.Printf("Session ID: %s\n", session.SessionID)

	r, err := jsonl.OpenSession(session.FilePath)
	if err != nil {
		return err
	}
	outcomes := jsonl.Collect(r)
	r.Close()

	var projectCwd, firstTimestamp string
	for _, out := range outcomes {
		if out.Record == nil {
			continue
		}
		if projectCwd == "" {
			projectCwd = out.Record.CWD
		}
		if firstTimestamp == "" {
			firstTimestamp = out.Record.Timestamp
		}
		if projectCwd != "" && firstTimestamp != "" {
			break
		}
	}

	if projectCwd != "" {
		fmt.Printf("Project: %s\n", projectCwd)
	}
	if firstTimestamp != "" {
		fmt.Printf("Started: %s\n", render.Timestamp(firstTimestamp))
	}
	if entry, ok := history.FirstUserMessage(history.NewOutcomeSource(outcomes)); ok {
		fmt.Printf("First user message: %s\n", entry.Text)
	}
	return nil
}
