package jsonl

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kaichen/claco/pkg/models"
)

func TestDecodeLineUserRecord(t *testing.T) {
	line := `{"uuid":"u1","parentUuid":null,"sessionId":"s1","isSidechain":false,` +
		`"userType":"external","cwd":"/work/demo","type":"user",` +
		`"message":{"role":"user","content":"hello there"},` +
		`"timestamp":"2025-07-01T10:00:00Z","version":"1.0.43"}`

	out := DecodeLine([]byte(line))
	if out.Skipped != nil {
		t.Fatalf("unexpected skip: %+v", out.Skipped)
	}

	rec := out.Record
	if rec.UUID != "u1" || rec.SessionID != "s1" || rec.Type != "user" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ParentUUID != nil {
		t.Errorf("expected nil parent for thread root")
	}
	if rec.CWD != "/work/demo" {
		t.Errorf("cwd = %q", rec.CWD)
	}
	if rec.Message == nil || rec.Message.Content.Text() != "hello there" {
		t.Errorf("string content not decoded: %+v", rec.Message)
	}
}

func TestDecodeLineBlockContent(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":[` +
		`{"type":"text","text":"run the tests"},` +
		`{"type":"tool_result","tool_use_id":"t1","content":"ok"},` +
		`{"type":"hologram","payload":{"x":1}}]}}`

	out := DecodeLine([]byte(line))
	if out.Record == nil {
		t.Fatal("expected record")
	}
	content := out.Record.Message.Content
	if len(content) != 3 {
		t.Fatalf("got %d blocks", len(content))
	}
	if _, ok := content[0].(models.TextBlock); !ok {
		t.Errorf("block 0 is %T", content[0])
	}
	if _, ok := content[1].(models.ToolResultBlock); !ok {
		t.Errorf("block 1 is %T", content[1])
	}
	other, ok := content[2].(models.OtherBlock)
	if !ok {
		t.Fatalf("block 2 is %T, want OtherBlock", content[2])
	}
	if other.Type != "hologram" || len(other.Raw) == 0 {
		t.Errorf("unrecognized block did not preserve raw bytes: %+v", other)
	}
	if !content.HasToolResult() {
		t.Error("HasToolResult() = false")
	}
}

func TestDecodeLineUnknownTopLevelFields(t *testing.T) {
	line := `{"type":"summary","summary":"tidy things","leafUuid":"x",` +
		`"someFutureField":{"nested":true}}`

	out := DecodeLine([]byte(line))
	if out.Record == nil {
		t.Fatal("unknown fields must not reject the record")
	}
	if out.Record.Type != "summary" {
		t.Errorf("type = %q", out.Record.Type)
	}
	if len(out.Record.Raw) == 0 {
		t.Error("raw line not preserved")
	}
}

func TestDecodeLineSkips(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		reason SkipReason
	}{
		{"blank", "   \t ", SkipBlank},
		{"truncated json", `{"uuid":"u1","mess`, SkipInvalidJSON},
		{"not json", "plain text line", SkipInvalidJSON},
		{"array line", `[1,2,3]`, SkipBadShape},
		{"scalar line", `42`, SkipBadShape},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := DecodeLine([]byte(c.line))
			if out.Skipped == nil {
				t.Fatalf("expected skip, got record %+v", out.Record)
			}
			if out.Skipped.Reason != c.reason {
				t.Errorf("reason = %q, want %q", out.Skipped.Reason, c.reason)
			}
		})
	}
}

// Decoding is total: arbitrary bytes always produce an outcome and never
// panic.
func TestDecodeLineTotal(t *testing.T) {
	inputs := []string{
		"", "\x00\x01\x02", `{"}`, `{"message":"not an object"}`,
		`{"message":{"role":5,"content":[]}}`,
		`{"uuid":123}`,
		strings.Repeat("x", 100000),
		`{"type":"user","message":{"content":{"weird":"object"}}}`,
	}
	for _, in := range inputs {
		out := DecodeLine([]byte(in))
		if (out.Record == nil) == (out.Skipped == nil) {
			t.Errorf("input %q: outcome must be exactly one of record/skipped", excerpt([]byte(in)))
		}
	}
}

func TestDecodeLineNonObjectMessage(t *testing.T) {
	out := DecodeLine([]byte(`{"type":"user","message":"just a string"}`))
	if out.Record == nil {
		t.Fatal("record expected")
	}
	if out.Record.Message != nil {
		t.Error("non-object message should decode to nil, not error")
	}
}

func TestContentObjectFallback(t *testing.T) {
	var c models.Content
	if err := json.Unmarshal([]byte(`{"unexpected":"shape"}`), &c); err != nil {
		t.Fatalf("content unmarshal must not fail: %v", err)
	}
	if len(c) != 1 {
		t.Fatalf("got %d blocks", len(c))
	}
	if _, ok := c[0].(models.OtherBlock); !ok {
		t.Errorf("fallback block is %T", c[0])
	}
}

func TestExcerptTruncation(t *testing.T) {
	long := strings.Repeat("é", 200)
	got := excerpt([]byte(long))
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long excerpt not truncated: %q", got)
	}
	if len(got) > excerptLimit+3 {
		t.Errorf("excerpt too long: %d bytes", len(got))
	}
}
