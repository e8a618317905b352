package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kaichen/claco/pkg/models"
)

func TestTimestampPassthroughOnBadInput(t *testing.T) {
	if got := Timestamp("not-a-timestamp"); got != "not-a-timestamp" {
		t.Errorf("got %q", got)
	}
}

func TestTimestampFormat(t *testing.T) {
	got := Timestamp("2025-07-01T10:00:00Z")
	// Local offset varies; the shape must not.
	if len(got) != len("2006-01-02 15:04:05") {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestContentTextPlaceholders(t *testing.T) {
	content := models.Content{
		models.TextBlock{Text: "check this file"},
		models.ToolUseBlock{Name: "Read", Input: json.RawMessage(`{}`)},
		models.ImageBlock{},
		models.OtherBlock{Type: "x-future"},
	}

	got := ContentText(content)
	for _, want := range []string{"check this file", "[tool: Read]", "[image]", "[unrecognized block: x-future]"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestMessageTextNilSafety(t *testing.T) {
	if got := MessageText(nil); got != "" {
		t.Errorf("got %q", got)
	}
	if got := MessageText(&models.LogRecord{}); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestPreview(t *testing.T) {
	got := Preview("line one\nline   two", 40)
	if got != "line one line two" {
		t.Errorf("got %q", got)
	}

	long := strings.Repeat("word ", 50)
	short := Preview(long, 20)
	if !strings.HasSuffix(short, "...") {
		t.Errorf("expected truncation tail: %q", short)
	}
}
