package models

import "time"

// Project is one subdirectory of the Claude projects tree.
type Project struct {
	// DirName is the sanitized directory name under ~/.claude/projects.
	DirName string
	// Path is the best-effort original filesystem path. When any session
	// in the project recorded a cwd, Path is that literal value; otherwise
	// it is the desanitized directory name and may be wrong for paths that
	// contained hyphens.
	Path string
	// Name is a short display name derived from Path.
	Name string
	// SessionIDs lists the session files found under the project, in
	// discovery order. A project with no sessions is still valid.
	SessionIDs []string

	// Aggregate fields, populated only by the stats view.
	SessionCount int
	LastActivity time.Time
}

// Session identifies one session log file.
type Session struct {
	SessionID   string
	ProjectPath string
	// FilePath is the absolute path of the backing .jsonl file.
	FilePath     string
	LastActivity time.Time
	// Summary is the first genuine user message, when known.
	Summary string
}

// LiveSession describes a currently-attached editor session. Its only
// persistence is the lock file it was read from; once the file is gone,
// so is the session.
type LiveSession struct {
	PID              int
	IDEName          string
	WorkspaceFolders []string
}
