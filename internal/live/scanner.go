// Package live reads the ephemeral lock files that attached editor
// sessions leave behind. A lock file's existence is the liveness signal;
// there is no teardown event to consume.
package live

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kaichen/claco/internal/claude"
	"github.com/kaichen/claco/pkg/models"
)

type lockFile struct {
	PID              int      `json:"pid"`
	IDEName          string   `json:"ideName"`
	WorkspaceFolders []string `json:"workspaceFolders"`
	// Transport and auth fields exist in the file but are not consumed.
}

// Scan lists live sessions from the default IDE directory.
func Scan() ([]models.LiveSession, error) {
	dir, err := claude.IDEDir()
	if err != nil {
		return nil, err
	}
	sessions, _, err := ScanDir(dir)
	return sessions, err
}

// ScanDir lists live sessions from an explicit directory, also reporting
// how many lock files were skipped. Lock files are written by a racing
// process; one that fails to parse is expected churn, not an error. A
// missing directory means no live sessions.
func ScanDir(dir string) ([]models.LiveSession, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to read ide directory: %w", err)
	}

	var sessions []models.LiveSession
	skipped := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}

		// The filename stem is the process id and is the session's key.
		pid, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".lock"))
		if err != nil {
			skipped++
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Deleted between listing and read: the session just ended.
			skipped++
			continue
		}

		var lock lockFile
		if err := json.Unmarshal(content, &lock); err != nil {
			skipped++
			continue
		}

		sessions = append(sessions, models.LiveSession{
			PID:              pid,
			IDEName:          lock.IDEName,
			WorkspaceFolders: lock.WorkspaceFolders,
		})
	}

	return sessions, skipped, nil
}
