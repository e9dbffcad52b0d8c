package memory

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// TranscriptEntry is a minimal persisted view of a chat turn: role + text.
// Tool blocks are transient and not persisted.
type TranscriptEntry struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// Transcript returns the text-only view of the conversation: user text and
// assistant text blocks, in order. Tool_use and tool_result blocks are
// skipped; a message with no text contributes nothing.
func (c *Conversation) Transcript() []TranscriptEntry {
	var out []TranscriptEntry
	for _, m := range c.msgs {
		text := ""
		for _, blk := range m.Content {
			if tb := blk.OfText; tb != nil {
				if text == "" {
					text = tb.Text
				} else {
					text += "\n" + tb.Text
				}
			}
		}
		if text == "" {
			continue
		}
		out = append(out, TranscriptEntry{Role: string(m.Role), Text: text})
	}
	return out
}

// RestoreTranscript appends the persisted entries to the conversation as
// plain text messages. Intended for seeding a fresh Conversation at startup.
func (c *Conversation) RestoreTranscript(entries []TranscriptEntry) {
	for _, e := range entries {
		if e.Role == string(anthropic.MessageParamRoleAssistant) {
			// Restored assistant text cannot fail validation.
			_ = c.AppendAssistant(anthropic.NewTextBlock(e.Text))
		} else {
			c.AppendUser(e.Text)
		}
	}
}

// LoadTranscript reads a persisted transcript; a missing file is not an
// error and yields nil.
func LoadTranscript(path string) ([]TranscriptEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var entries []TranscriptEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func SaveTranscript(path string, entries []TranscriptEntry) error {
	b, err := json.MarshalIndent(entries, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
