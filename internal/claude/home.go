// Package claude locates the Claude Code CLI's on-disk tree and maps
// project paths to and from its sanitized directory names.
package claude

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the Claude home directory, primarily for tests.
const EnvHome = "CLACO_CLAUDE_HOME"

// Home returns the Claude home directory, ~/.claude by default.
func Home() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}

// ProjectsDir returns the root of the per-project session log tree.
func ProjectsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "projects"), nil
}

// IDEDir returns the directory holding live-session lock files.
func IDEDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "ide"), nil
}

// CommandsDir returns the user-scope slash commands directory.
func CommandsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "commands"), nil
}

// SettingsPath returns the user-scope settings.json path.
func SettingsPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "settings.json"), nil
}
