// Package scopestore manages the user- and project-scope configuration
// the Claude CLI reads: slash-command markdown files and settings.json.
package scopestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/kaichen/claco/internal/claude"
)

// Scope selects between the user-wide and per-project stores.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// ParseScope validates a scope flag value.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeUser, ScopeProject:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("invalid scope %q (use user or project)", s)
	}
}

// CommandsDir returns the slash-commands directory for a scope.
func CommandsDir(scope Scope) (string, error) {
	switch scope {
	case ScopeUser:
		return claude.CommandsDir()
	case ScopeProject:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return filepath.Join(cwd, ".claude", "commands"), nil
	default:
		return "", fmt.Errorf("invalid scope %q", scope)
	}
}

// SlashCommand is one command markdown file.
type SlashCommand struct {
	// Name is the invocation token, namespaced by subdirectory:
	// frontend/component.md becomes /frontend:component.
	Name        string
	Path        string
	Description string
}

type frontmatter struct {
	Description string `yaml:"description"`
}

// ListCommands walks a scope's commands directory. A missing directory
// yields an empty list.
func ListCommands(scope Scope) ([]SlashCommand, error) {
	dir, err := CommandsDir(scope)
	if err != nil {
		return nil, err
	}
	return listCommandsIn(dir, "")
}

func listCommandsIn(dir, namespace string) ([]SlashCommand, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read commands directory: %w", err)
	}

	var commands []SlashCommand
	var subdirs []string

	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".md") {
			continue
		}
		stem := strings.TrimSuffix(name, ".md")
		full := "/" + stem
		if namespace != "" {
			full = "/" + namespace + ":" + stem
		}
		path := filepath.Join(dir, name)
		commands = append(commands, SlashCommand{
			Name:        full,
			Path:        path,
			Description: readDescription(path),
		})
	}

	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	sort.Strings(subdirs)

	for _, sub := range subdirs {
		ns := sub
		if namespace != "" {
			ns = namespace + ":" + sub
		}
		nested, err := listCommandsIn(filepath.Join(dir, sub), ns)
		if err != nil {
			return nil, err
		}
		commands = append(commands, nested...)
	}

	return commands, nil
}

// readDescription extracts the frontmatter description, when present.
// Command files are user-authored; a broken frontmatter block just means
// no description.
func readDescription(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	raw, ok := splitFrontmatter(string(content))
	if !ok {
		return ""
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return ""
	}
	return fm.Description
}

// splitFrontmatter returns the YAML between leading "---" fences.
func splitFrontmatter(content string) (string, bool) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return "", false
	}
	rest := content[strings.Index(content, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// CountCommands counts the command files a Clean would remove.
func CountCommands(scope Scope) (int, error) {
	commands, err := ListCommands(scope)
	if err != nil {
		return 0, err
	}
	return len(commands), nil
}

// CleanCommands removes a scope's entire commands directory.
func CleanCommands(scope Scope) error {
	dir, err := CommandsDir(scope)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove commands directory: %w", err)
	}
	return nil
}
