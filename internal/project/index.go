// Package project enumerates the per-project session log tree and
// resolves each project's original filesystem path.
package project

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/kaichen/claco/internal/claude"
	"github.com/kaichen/claco/pkg/models"
)

// Named outcomes the command layer distinguishes from real I/O failures.
var (
	ErrNoLogRoot       = errors.New("no Claude projects directory found")
	ErrProjectNotFound = errors.New("no Claude project found for directory")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSessions      = errors.New("no sessions found")
)

// Index reads one snapshot of the projects tree. It never writes to it.
type Index struct {
	root string
}

// NewIndex returns an index over the default projects directory.
func NewIndex() (*Index, error) {
	root, err := claude.ProjectsDir()
	if err != nil {
		return nil, err
	}
	return &Index{root: root}, nil
}

// NewIndexAt returns an index rooted at an explicit directory.
func NewIndexAt(root string) *Index {
	return &Index{root: root}
}

// Root returns the projects directory this index reads.
func (ix *Index) Root() string { return ix.root }

// ListProjects enumerates project directories with their session ids and
// resolved paths. Projects with zero sessions are included.
func (ix *Index) ListProjects() ([]models.Project, error) {
	entries, err := os.ReadDir(ix.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLogRoot
		}
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var projects []models.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := ix.loadProject(entry.Name())
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (ix *Index) loadProject(dirName string) (models.Project, error) {
	ids, err := ix.Sessions(dirName)
	if err != nil {
		return models.Project{}, err
	}

	path := ix.resolvePath(dirName, ids)
	return models.Project{
		DirName:    dirName,
		Path:       path,
		Name:       filepath.Base(path),
		SessionIDs: ids,
	}, nil
}

// Sessions lists the session ids under a project directory without
// opening any session file. Only .jsonl files whose stem parses as a
// UUID count; the producer keeps sub-agent transcripts and snapshots in
// differently named files.
func (ix *Index) Sessions(dirName string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(ix.root, dirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, dirName)
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ok := sessionStem(entry.Name())
		if !ok {
			continue
		}
		ids = append(ids, stem)
	}
	return ids, nil
}

func sessionStem(name string) (string, bool) {
	if !strings.HasSuffix(name, ".jsonl") {
		return "", false
	}
	stem := strings.TrimSuffix(name, ".jsonl")
	if _, err := uuid.Parse(stem); err != nil {
		return "", false
	}
	return stem, true
}

// ResolvePath returns the project's original path. A cwd recorded inside
// a session file is authoritative; the desanitized directory name is only
// a fallback because the sanitization is lossy.
func (ix *Index) ResolvePath(dirName string) (string, error) {
	ids, err := ix.Sessions(dirName)
	if err != nil {
		return "", err
	}
	return ix.resolvePath(dirName, ids), nil
}

// resolvePath opens at most one session file: the first one, first line
// only. More evidence would be more robust but turns listing into a full
// tree read.
func (ix *Index) resolvePath(dirName string, ids []string) string {
	if len(ids) > 0 {
		path := filepath.Join(ix.root, dirName, ids[0]+".jsonl")
		if cwd := peekCwd(path); cwd != "" {
			return cwd
		}
	}
	return claude.Desanitize(dirName)
}

// peekCwd reads the first line of a session file and extracts its cwd
// field, tolerating missing files and malformed lines.
func peekCwd(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 256*1024), 10*1024*1024)
	if !sc.Scan() {
		return ""
	}
	line := sc.Bytes()
	if !gjson.ValidBytes(line) {
		return ""
	}
	return gjson.GetBytes(line, "cwd").String()
}

// FindProjectForCwd selects the project whose resolved path equals the
// given directory. The match is exact; being inside a subdirectory of a
// known project does not count.
func (ix *Index) FindProjectForCwd(cwd string) (models.Project, error) {
	projects, err := ix.ListProjects()
	if err != nil {
		return models.Project{}, err
	}
	for _, p := range projects {
		if p.Path == cwd {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, cwd)
}

// FindSession locates a session id across all projects and returns it
// with its file path and resolved project path.
func (ix *Index) FindSession(sessionID string) (models.Session, error) {
	entries, err := os.ReadDir(ix.root)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Session{}, ErrNoLogRoot
		}
		return models.Session{}, fmt.Errorf("failed to read projects directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(ix.root, entry.Name(), sessionID+".jsonl")
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		return models.Session{
			SessionID:    sessionID,
			ProjectPath:  ix.resolvePathLazy(entry.Name()),
			FilePath:     path,
			LastActivity: info.ModTime(),
		}, nil
	}
	return models.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
}

func (ix *Index) resolvePathLazy(dirName string) string {
	path, err := ix.ResolvePath(dirName)
	if err != nil {
		return claude.Desanitize(dirName)
	}
	return path
}

// MostRecentSession returns the session whose file was modified last
// across every project. In-file timestamps are not trusted for this:
// producer clock adjustments can reorder them, while the directory
// listing's mtime tracks the actual last append. Ties break to the
// lexicographically smallest session id so the choice is deterministic.
func (ix *Index) MostRecentSession() (models.Session, error) {
	entries, err := os.ReadDir(ix.root)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Session{}, ErrNoLogRoot
		}
		return models.Session{}, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var best models.Session
	found := false

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(ix.root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			stem, ok := sessionStem(f.Name())
			if !ok {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			cand := models.Session{
				SessionID:    stem,
				FilePath:     filepath.Join(dir, f.Name()),
				LastActivity: info.ModTime(),
			}
			if !found || moreRecent(cand, best) {
				best = cand
				found = true
			}
		}
	}

	if !found {
		return models.Session{}, ErrNoSessions
	}
	return best, nil
}

func moreRecent(a, b models.Session) bool {
	if !a.LastActivity.Equal(b.LastActivity) {
		return a.LastActivity.After(b.LastActivity)
	}
	return a.SessionID < b.SessionID
}

// SessionsDetailed returns the sessions of one project with file paths
// and mtimes, most recent first.
func (ix *Index) SessionsDetailed(p models.Project) ([]models.Session, error) {
	ids, err := ix.Sessions(p.DirName)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		path := filepath.Join(ix.root, p.DirName, id+".jsonl")
		var mtime time.Time
		if info, err := os.Stat(path); err == nil {
			mtime = info.ModTime()
		}
		sessions = append(sessions, models.Session{
			SessionID:    id,
			ProjectPath:  p.Path,
			FilePath:     path,
			LastActivity: mtime,
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return moreRecent(sessions[i], sessions[j])
	})
	return sessions, nil
}

// SessionFile returns the file path for a session id within a project.
func (ix *Index) SessionFile(p models.Project, sessionID string) (string, error) {
	path := filepath.Join(ix.root, p.DirName, sessionID+".jsonl")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return "", fmt.Errorf("failed to stat session file: %w", err)
	}
	return path, nil
}
