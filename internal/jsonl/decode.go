// Package jsonl decodes session log files line by line. The log format
// belongs to an external tool and drifts across its versions, so decoding
// is total: every input line yields either a LogRecord or a Skipped
// outcome, never an error.
package jsonl

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/kaichen/claco/pkg/models"
)

// SkipReason classifies why a line could not become a LogRecord.
type SkipReason string

const (
	SkipBlank       SkipReason = "blank line"
	SkipInvalidJSON SkipReason = "invalid JSON"
	SkipBadShape    SkipReason = "not a record object"
	SkipOversized   SkipReason = "line exceeds scanner limit"
	SkipTruncated   SkipReason = "truncated trailing line"
)

const excerptLimit = 80

// Skipped is the non-fatal outcome for a line that did not decode.
type Skipped struct {
	Reason  SkipReason
	Excerpt string
}

// Outcome is the result of decoding one line: exactly one of Record or
// Skipped is set.
type Outcome struct {
	Record  *models.LogRecord
	Skipped *Skipped
}

func skip(reason SkipReason, line []byte) Outcome {
	return Outcome{Skipped: &Skipped{Reason: reason, Excerpt: excerpt(line)}}
}

func excerpt(line []byte) string {
	line = bytes.TrimSpace(line)
	if len(line) <= excerptLimit {
		return string(line)
	}
	cut := line[:excerptLimit]
	// Do not cut a multi-byte rune in half.
	for len(cut) > 0 && !utf8.Valid(cut) {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "..."
}

// DecodeLine decodes one line of a session file. Unknown top-level fields
// are ignored, a malformed message payload degrades to a record without a
// message, and anything that is not a JSON object at all is Skipped.
func DecodeLine(line []byte) Outcome {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return skip(SkipBlank, line)
	}

	if !json.Valid(trimmed) {
		return skip(SkipInvalidJSON, line)
	}

	var envelope struct {
		UUID        string          `json:"uuid"`
		ParentUUID  *string         `json:"parentUuid"`
		SessionID   string          `json:"sessionId"`
		IsSidechain bool            `json:"isSidechain"`
		UserType    string          `json:"userType"`
		CWD         string          `json:"cwd"`
		Version     string          `json:"version"`
		GitBranch   string          `json:"gitBranch"`
		Type        string          `json:"type"`
		Message     json.RawMessage `json:"message"`
		Timestamp   string          `json:"timestamp"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		// Valid JSON but not our object shape (an array, a bare scalar,
		// or a field with an impossible type).
		return skip(SkipBadShape, line)
	}

	rec := &models.LogRecord{
		UUID:        envelope.UUID,
		ParentUUID:  envelope.ParentUUID,
		SessionID:   envelope.SessionID,
		IsSidechain: envelope.IsSidechain,
		UserType:    envelope.UserType,
		CWD:         envelope.CWD,
		Version:     envelope.Version,
		GitBranch:   envelope.GitBranch,
		Type:        envelope.Type,
		Timestamp:   envelope.Timestamp,
		Raw:         append(json.RawMessage(nil), trimmed...),
	}

	if len(envelope.Message) > 0 && !bytes.Equal(envelope.Message, []byte("null")) {
		var msg models.Message
		if err := json.Unmarshal(envelope.Message, &msg); err == nil {
			rec.Message = &msg
		}
		// A message that is not an object is dropped from the record;
		// the record itself still counts.
	}

	return Outcome{Record: rec}
}
