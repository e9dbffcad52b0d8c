package windowing_test

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Text block constructor
func T(text string) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{OfText: &anthropic.TextBlockParam{Text: text}}
}

// Tool-use block constructor
func TU(id string) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{ID: id, Name: "tool"}}
}

// Tool-result (string payload) constructor
func TR(id, payload string) anthropic.ContentBlockParamUnion {
	return anthropic.NewToolResultBlock(id, payload, false)
}

// Assistant message constructor
func Asst(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks}
}

// User message constructor
func User(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleUser, Content: blocks}
}

// textMsg returns a user message whose heuristic cost is exactly tokens
// (text length = 4 * tokens).
func textMsg(tokens int) anthropic.MessageParam {
	return User(T(strings.Repeat("x", tokens*4)))
}
