package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Scanner buffer sizes: tool outputs embedded in records can make single
// lines run to megabytes.
const (
	initialBuf = 256 * 1024
	maxBuf     = 10 * 1024 * 1024
)

// Reader streams one session file through DecodeLine, in file order.
// The file may be appended to concurrently by the producing tool; a
// partially written trailing line surfaces as a Skipped outcome.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	done    bool
	skipped int

	// expectID is the session id derived from the filename; records that
	// disagree are counted but kept.
	expectID   string
	mismatched int
}

// NewReader wraps an arbitrary stream of JSONL records.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBuf), maxBuf)
	return &Reader{scanner: sc}
}

// OpenSession opens a session file for streaming. The caller must Close.
func OpenSession(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	r.expectID = strings.TrimSuffix(filepath.Base(path), ".jsonl")
	return r, nil
}

// Next returns the next decode outcome. The second result is false once
// the stream is exhausted.
func (r *Reader) Next() (Outcome, bool) {
	if r.done {
		return Outcome{}, false
	}

	if !r.scanner.Scan() {
		r.done = true
		if err := r.scanner.Err(); err != nil {
			r.skipped++
			reason := SkipTruncated
			if errors.Is(err, bufio.ErrTooLong) {
				reason = SkipOversized
			}
			return Outcome{Skipped: &Skipped{Reason: reason}}, true
		}
		return Outcome{}, false
	}

	out := DecodeLine(r.scanner.Bytes())
	if out.Skipped != nil {
		r.skipped++
	}
	if out.Record != nil && r.expectID != "" &&
		out.Record.SessionID != "" && out.Record.SessionID != r.expectID {
		r.mismatched++
	}
	return out, true
}

// Skipped reports how many lines were skipped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Mismatched reports how many records carried a sessionId that disagreed
// with the filename. Those records are kept; the count is diagnostic.
func (r *Reader) Mismatched() int { return r.mismatched }

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Collect drains the reader and returns all outcomes in file order.
func Collect(r *Reader) []Outcome {
	var outcomes []Outcome
	for {
		out, ok := r.Next()
		if !ok {
			return outcomes
		}
		outcomes = append(outcomes, out)
	}
}
