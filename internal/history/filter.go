// Package history reduces a decoded session stream to the chronological
// list of genuine end-user input messages.
package history

import (
	"regexp"
	"strings"

	"github.com/kaichen/claco/internal/jsonl"
	"github.com/kaichen/claco/internal/render"
	"github.com/kaichen/claco/pkg/models"
)

// The producer wraps slash-command invocations in command-name tags; a
// bare leading /name also counts as a command invocation.
var (
	commandTagRe  = regexp.MustCompile(`<command-name>(/[^<]+)</command-name>`)
	bareCommandRe = regexp.MustCompile(`^(/[A-Za-z0-9:_-]+)(\s|$)`)
)

// caveatMarker identifies the producer's bookkeeping message that is
// shaped like user input but carries none.
const caveatMarker = "Caveat: The messages below were generated by the user while running local commands."

// Entry is one emitted end-user message.
type Entry struct {
	Record *models.LogRecord
	// Text is the rendered display text. For a slash command it is the
	// bare /name token, with the structured payload suppressed.
	Text string
}

// Source yields decode outcomes in file order.
type Source interface {
	Next() (jsonl.Outcome, bool)
}

// Filter consumes a session stream and emits genuine user input in file
// order. A record must pass every gate: decoded, not a sidechain, tagged
// user by both record type and user type, not the caveat message. The
// record that immediately follows a slash command is the command's
// logged expansion and is suppressed as well.
func Filter(src Source) []Entry {
	var entries []Entry
	skipNext := false

	for {
		out, ok := src.Next()
		if !ok {
			return entries
		}
		if out.Record == nil {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}

		rec := out.Record
		if rec.IsSidechain {
			continue
		}
		// The two user signals can disagree across producer versions;
		// only records both agree on are real input.
		if rec.Type != "user" || rec.UserType != "external" {
			continue
		}
		if rec.Message == nil || rec.Message.Role != "user" {
			continue
		}

		text := render.MessageText(rec)
		if text == "" {
			continue
		}
		if strings.Contains(text, caveatMarker) {
			continue
		}
		if rec.Message.Content.HasToolResult() {
			continue
		}

		if command, ok := slashCommand(text); ok {
			entries = append(entries, Entry{Record: rec, Text: command})
			skipNext = true
			continue
		}

		entries = append(entries, Entry{Record: rec, Text: text})
	}
}

// slashCommand extracts the bare command token when the content is a
// slash-command invocation.
func slashCommand(text string) (string, bool) {
	if m := commandTagRe.FindStringSubmatch(text); m != nil {
		return strings.Fields(m[1])[0], true
	}
	if m := bareCommandRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// OutcomeSource replays a materialized outcome list as a Source.
type OutcomeSource struct {
	outcomes []jsonl.Outcome
	pos      int
}

func NewOutcomeSource(outcomes []jsonl.Outcome) *OutcomeSource {
	return &OutcomeSource{outcomes: outcomes}
}

func (s *OutcomeSource) Next() (jsonl.Outcome, bool) {
	if s.pos >= len(s.outcomes) {
		return jsonl.Outcome{}, false
	}
	out := s.outcomes[s.pos]
	s.pos++
	return out, true
}

// FirstUserMessage returns the first genuine user message of a session
// stream, or ok=false when the session has none.
func FirstUserMessage(src Source) (Entry, bool) {
	entries := Filter(src)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}
