package jsonl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReaderStreamsInFileOrder(t *testing.T) {
	input := strings.Join([]string{
		`{"uuid":"a","type":"user","timestamp":"2025-07-01T10:00:05Z"}`,
		`not json at all`,
		``,
		`{"uuid":"b","type":"assistant","timestamp":"2025-07-01T09:59:00Z"}`,
	}, "\n")

	r := NewReader(strings.NewReader(input))
	outcomes := Collect(r)

	if len(outcomes) != 4 {
		t.Fatalf("got %d outcomes, want 4", len(outcomes))
	}
	if outcomes[0].Record == nil || outcomes[0].Record.UUID != "a" {
		t.Errorf("outcome 0: %+v", outcomes[0])
	}
	if outcomes[1].Skipped == nil || outcomes[1].Skipped.Reason != SkipInvalidJSON {
		t.Errorf("outcome 1: %+v", outcomes[1])
	}
	if outcomes[2].Skipped == nil || outcomes[2].Skipped.Reason != SkipBlank {
		t.Errorf("outcome 2: %+v", outcomes[2])
	}
	// File order is preserved even though record b has an earlier
	// timestamp than record a.
	if outcomes[3].Record == nil || outcomes[3].Record.UUID != "b" {
		t.Errorf("outcome 3: %+v", outcomes[3])
	}
	if r.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", r.Skipped())
	}
}

func TestReaderPartialTrailingLine(t *testing.T) {
	// Simulates racing a concurrent append: the last line has no newline
	// and is cut mid-object.
	input := `{"uuid":"a","type":"user"}` + "\n" + `{"uuid":"b","ty`

	r := NewReader(strings.NewReader(input))
	outcomes := Collect(r)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Record == nil {
		t.Errorf("first line should decode")
	}
	if outcomes[1].Skipped == nil {
		t.Errorf("torn trailing line must skip, not fail: %+v", outcomes[1])
	}
}

func TestOpenSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.jsonl")
	if err := os.WriteFile(path, []byte(`{"uuid":"a","type":"user"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := OpenSession(path)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer r.Close()

	outcomes := Collect(r)
	if len(outcomes) != 1 || outcomes[0].Record == nil {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}

func TestReaderCountsSessionIDMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.jsonl")
	lines := `{"uuid":"a","sessionId":"abc","type":"user"}` + "\n" +
		`{"uuid":"b","sessionId":"other","type":"user"}` + "\n"
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := OpenSession(path)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer r.Close()

	outcomes := Collect(r)
	// The disagreeing record is kept; the mismatch only feeds a counter.
	if len(outcomes) != 2 || outcomes[1].Record == nil {
		t.Fatalf("mismatching record was not kept: %+v", outcomes)
	}
	if r.Mismatched() != 1 {
		t.Errorf("Mismatched() = %d, want 1", r.Mismatched())
	}
}

func TestOpenSessionMissingFile(t *testing.T) {
	_, err := OpenSession(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReaderOversizedLine(t *testing.T) {
	huge := `{"uuid":"a","pad":"` + strings.Repeat("x", maxBuf) + `"}`
	r := NewReader(strings.NewReader(huge))

	out, ok := r.Next()
	if !ok {
		t.Fatal("expected an outcome for the oversized line")
	}
	if out.Skipped == nil || out.Skipped.Reason != SkipOversized {
		t.Errorf("oversized line outcome: %+v", out)
	}
	if _, ok := r.Next(); ok {
		t.Error("reader should be exhausted after scanner error")
	}
}
