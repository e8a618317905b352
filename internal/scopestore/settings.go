package scopestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaichen/claco/internal/claude"
)

// Hook is one command bound to a lifecycle event.
type Hook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// HookMatcher binds hooks to a tool-name pattern.
type HookMatcher struct {
	Matcher string `json:"matcher"`
	Hooks   []Hook `json:"hooks"`
}

// Hooks maps event names to their matchers.
type Hooks map[string][]HookMatcher

// Settings models a settings.json file. The file is shared with the
// Claude CLI, which adds fields of its own; everything we do not
// interpret round-trips through Other untouched.
type Settings struct {
	Hooks Hooks
	Other map[string]json.RawMessage
}

// UnmarshalJSON keeps unknown fields instead of dropping them.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	s.Other = make(map[string]json.RawMessage)
	for key, value := range fields {
		if key == "hooks" {
			if err := json.Unmarshal(value, &s.Hooks); err != nil {
				return fmt.Errorf("failed to parse hooks section: %w", err)
			}
			continue
		}
		s.Other[key] = value
	}
	return nil
}

// MarshalJSON writes hooks plus every preserved field.
func (s Settings) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(s.Other)+1)
	for key, value := range s.Other {
		fields[key] = value
	}
	if s.Hooks != nil {
		raw, err := json.Marshal(s.Hooks)
		if err != nil {
			return nil, err
		}
		fields["hooks"] = raw
	}
	return json.Marshal(fields)
}

// SettingsPath returns the settings.json path for a scope.
func SettingsPath(scope Scope) (string, error) {
	switch scope {
	case ScopeUser:
		return claude.SettingsPath()
	case ScopeProject:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return filepath.Join(cwd, ".claude", "settings.json"), nil
	default:
		return "", fmt.Errorf("invalid scope %q", scope)
	}
}

// LoadSettings reads a settings file; a missing file is empty settings.
func LoadSettings(path string) (*Settings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Other: map[string]json.RawMessage{}}, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := json.Unmarshal(content, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON from %s: %w", path, err)
	}
	return &settings, nil
}

// SaveSettings writes settings atomically: serialize, write a sibling
// temp file, fsync, rename. The file is concurrently edited by the
// Claude CLI, so a torn write must never be observable.
func SaveSettings(path string, settings *Settings) error {
	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temporary settings file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save settings to %s: %w", path, err)
	}
	return nil
}

// AddHook appends a hook to an event's matcher list, reusing an existing
// matcher entry when the pattern already exists.
func (s *Settings) AddHook(event, matcher, command string) {
	if s.Hooks == nil {
		s.Hooks = Hooks{}
	}
	hook := Hook{Type: "command", Command: command}

	matchers := s.Hooks[event]
	for i, m := range matchers {
		if m.Matcher == matcher {
			matchers[i].Hooks = append(matchers[i].Hooks, hook)
			s.Hooks[event] = matchers
			return
		}
	}
	s.Hooks[event] = append(matchers, HookMatcher{Matcher: matcher, Hooks: []Hook{hook}})
}

// RemoveHook deletes a hook by position within an event's flattened hook
// list. It reports whether anything was removed.
func (s *Settings) RemoveHook(event string, index int) bool {
	matchers := s.Hooks[event]
	seen := 0
	for mi := range matchers {
		for hi := range matchers[mi].Hooks {
			if seen == index {
				matchers[mi].Hooks = append(matchers[mi].Hooks[:hi], matchers[mi].Hooks[hi+1:]...)
				if len(matchers[mi].Hooks) == 0 {
					matchers = append(matchers[:mi], matchers[mi+1:]...)
				}
				if len(matchers) == 0 {
					delete(s.Hooks, event)
				} else {
					s.Hooks[event] = matchers
				}
				return true
			}
			seen++
		}
	}
	return false
}
