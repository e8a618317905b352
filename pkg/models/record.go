package models

import "encoding/json"

// LogRecord is one decoded entry of a session JSONL file. The on-disk
// schema belongs to the Claude Code CLI and evolves without notice, so
// every field here is optional in practice and unknown fields are
// ignored rather than rejected.
type LogRecord struct {
	UUID        string   `json:"uuid"`
	ParentUUID  *string  `json:"parentUuid"`
	SessionID   string   `json:"sessionId"`
	IsSidechain bool     `json:"isSidechain"`
	UserType    string   `json:"userType"`
	CWD         string   `json:"cwd"`
	Version     string   `json:"version"`
	GitBranch   string   `json:"gitBranch"`
	Type        string   `json:"type"`
	Message     *Message `json:"-"`
	Timestamp   string   `json:"timestamp"`

	// Raw is the original line, kept so unrecognized producer metadata
	// survives a decode/inspect round trip.
	Raw json.RawMessage `json:"-"`
}

// Message is the variant payload of user/assistant records.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content is an ordered sequence of content blocks. The producer writes
// it either as a bare string or as an array of typed block objects.
type Content []ContentBlock

// ContentBlock is one element of a message's content array.
type ContentBlock interface {
	BlockType() string
}

type TextBlock struct {
	Text string `json:"text"`
}

type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type ToolResultBlock struct {
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
	IsError   bool            `json:"is_error"`
}

type ImageBlock struct {
	Source json.RawMessage `json:"source"`
}

type ThinkingBlock struct {
	Thinking string `json:"thinking"`
}

// OtherBlock preserves any block whose type discriminator we do not
// recognize. The raw bytes are kept so rendering can degrade to a
// placeholder instead of dropping the record.
type OtherBlock struct {
	Type string
	Raw  json.RawMessage
}

func (TextBlock) BlockType() string       { return "text" }
func (ToolUseBlock) BlockType() string    { return "tool_use" }
func (ToolResultBlock) BlockType() string { return "tool_result" }
func (ImageBlock) BlockType() string      { return "image" }
func (ThinkingBlock) BlockType() string   { return "thinking" }
func (b OtherBlock) BlockType() string    { return b.Type }

// UnmarshalJSON accepts the producer's two content encodings: a plain
// string (one text block) or an array of block objects. It never returns
// an error; anything unrecognized becomes an OtherBlock.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{TextBlock{Text: s}}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*c = Content{OtherBlock{Raw: append(json.RawMessage(nil), data...)}}
		return nil
	}

	blocks := make(Content, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, decodeBlock(item))
	}
	*c = blocks
	return nil
}

func decodeBlock(raw json.RawMessage) ContentBlock {
	var disc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return OtherBlock{Raw: append(json.RawMessage(nil), raw...)}
	}

	switch disc.Type {
	case "text":
		var b TextBlock
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	case "tool_use":
		var b ToolUseBlock
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	case "tool_result":
		var b ToolResultBlock
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	case "image":
		var b ImageBlock
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	case "thinking":
		var b ThinkingBlock
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	}
	return OtherBlock{Type: disc.Type, Raw: append(json.RawMessage(nil), raw...)}
}

// Text joins the text blocks of the content, one per line. Non-text
// blocks contribute nothing here; rendering handles their placeholders.
func (c Content) Text() string {
	var out string
	for _, b := range c {
		t, ok := b.(TextBlock)
		if !ok || t.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += t.Text
	}
	return out
}

// HasToolResult reports whether any block is a tool result. Records whose
// content is only tool results are plumbing, not user input.
func (c Content) HasToolResult() bool {
	for _, b := range c {
		if _, ok := b.(ToolResultBlock); ok {
			return true
		}
	}
	return false
}
