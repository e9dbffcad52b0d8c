package memory

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// ErrInvalidContent reports a structurally malformed content block: an
// unrecognised variant, a missing required field, or (in strict mode) a
// tool_result whose tool_use_id was never issued by a prior tool_use.
var ErrInvalidContent = errors.New("invalid message content")

// Conversation is the append-only message store for a single chat session.
// It is not safe for concurrent use; the driver owns it exclusively.
type Conversation struct {
	msgs []anthropic.MessageParam

	// tool_use ids seen in appended assistant messages.
	seenUse map[string]struct{}

	// lenient accepts tool results with no matching prior tool_use and
	// records their ids instead of rejecting them.
	lenient bool
	orphans []string
}

// Option configures a Conversation at construction time.
type Option func(*Conversation)

// WithLenientToolResults accepts orphaned tool results (no matching prior
// tool_use) and flags them via OrphanToolResultIDs instead of rejecting
// them with ErrInvalidContent.
func WithLenientToolResults() Option {
	return func(c *Conversation) { c.lenient = true }
}

func NewConversation(opts ...Option) *Conversation {
	c := &Conversation{seenUse: make(map[string]struct{})}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AppendUser appends a plain-text user message.
func (c *Conversation) AppendUser(text string) {
	c.msgs = append(c.msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
}

// AppendAssistant appends one assistant message built from the given blocks.
// Every block must be a recognised variant (text, tool_use or tool_result);
// tool_use ids are recorded so later tool results can be validated.
func (c *Conversation) AppendAssistant(blocks ...anthropic.ContentBlockParamUnion) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: assistant message has no content", ErrInvalidContent)
	}
	for _, blk := range blocks {
		if err := validateBlock(blk); err != nil {
			return err
		}
	}
	// Record ids only after the whole message validated, so a failed append
	// leaves the store untouched.
	for _, blk := range blocks {
		if tu := blk.OfToolUse; tu != nil {
			c.seenUse[tu.ID] = struct{}{}
		}
	}
	c.msgs = append(c.msgs, anthropic.NewAssistantMessage(blocks...))
	return nil
}

// AppendToolResult appends one user message carrying a single tool result.
func (c *Conversation) AppendToolResult(toolUseID, content string) error {
	return c.AppendToolResults(anthropic.NewToolResultBlock(toolUseID, content, false))
}

// AppendToolResults appends one user message carrying the given tool result
// blocks (several when the assistant issued parallel tool calls). Each
// block's tool_use_id must reference a prior tool_use; in strict mode a
// miss fails with ErrInvalidContent, in lenient mode it is recorded as an
// orphan and accepted.
func (c *Conversation) AppendToolResults(blocks ...anthropic.ContentBlockParamUnion) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: tool result message has no content", ErrInvalidContent)
	}
	var orphans []string
	for _, blk := range blocks {
		tr := blk.OfToolResult
		if tr == nil {
			return fmt.Errorf("%w: expected tool_result block", ErrInvalidContent)
		}
		if tr.ToolUseID == "" {
			return fmt.Errorf("%w: tool_result missing tool_use_id", ErrInvalidContent)
		}
		if _, ok := c.seenUse[tr.ToolUseID]; !ok {
			if !c.lenient {
				return fmt.Errorf("%w: tool_result %q has no matching tool_use", ErrInvalidContent, tr.ToolUseID)
			}
			orphans = append(orphans, tr.ToolUseID)
		}
	}
	c.orphans = append(c.orphans, orphans...)
	c.msgs = append(c.msgs, anthropic.NewUserMessage(blocks...))
	return nil
}

// AllMessages returns a snapshot copy of the full ordered conversation.
// Later appends are never observable through a previously returned slice.
func (c *Conversation) AllMessages() []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *Conversation) Len() int { return len(c.msgs) }

// OrphanToolResultIDs returns the tool_use_ids of tool results accepted in
// lenient mode without a matching prior tool_use. Empty in strict mode.
func (c *Conversation) OrphanToolResultIDs() []string {
	out := make([]string, len(c.orphans))
	copy(out, c.orphans)
	return out
}

func validateBlock(blk anthropic.ContentBlockParamUnion) error {
	switch {
	case blk.OfText != nil:
		return nil
	case blk.OfToolUse != nil:
		if blk.OfToolUse.ID == "" || blk.OfToolUse.Name == "" {
			return fmt.Errorf("%w: tool_use missing id or name", ErrInvalidContent)
		}
		return nil
	case blk.OfToolResult != nil:
		if blk.OfToolResult.ToolUseID == "" {
			return fmt.Errorf("%w: tool_result missing tool_use_id", ErrInvalidContent)
		}
		return nil
	default:
		return fmt.Errorf("%w: unrecognised content block", ErrInvalidContent)
	}
}
