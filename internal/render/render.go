// Package render formats already-filtered session data for display. It
// is pure: no I/O, no side effects.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/kaichen/claco/pkg/models"
)

// Timestamp converts an RFC3339 instant to local time in the tool's
// display format. Unparsable input passes through unchanged.
func Timestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// ContentText flattens content blocks to display text. Text blocks keep
// their text; every other block renders as a short typed placeholder so
// nothing disappears silently.
func ContentText(c models.Content) string {
	var parts []string
	for _, b := range c {
		switch block := b.(type) {
		case models.TextBlock:
			if block.Text != "" {
				parts = append(parts, block.Text)
			}
		case models.ToolUseBlock:
			parts = append(parts, fmt.Sprintf("[tool: %s]", block.Name))
		case models.ToolResultBlock:
			parts = append(parts, "[tool result]")
		case models.ImageBlock:
			parts = append(parts, "[image]")
		case models.ThinkingBlock:
			parts = append(parts, "[thinking]")
		case models.OtherBlock:
			if block.Type == "" {
				parts = append(parts, "[unrecognized block]")
			} else {
				parts = append(parts, fmt.Sprintf("[unrecognized block: %s]", block.Type))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// MessageText returns the display text of a record's message, or "" when
// the record carries none.
func MessageText(rec *models.LogRecord) string {
	if rec == nil || rec.Message == nil {
		return ""
	}
	return ContentText(rec.Message.Content)
}

// Line formats one history entry as "timestamp: text".
func Line(timestamp, text string) string {
	return fmt.Sprintf("%s: %s", Timestamp(timestamp), text)
}

// Preview collapses text to a single line and truncates it, rune-safe,
// for list views.
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate.StringWithTail(s, uint(width), "...")
}
