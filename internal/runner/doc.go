// Package runner drives the conversation: it exchanges messages with the
// Anthropic Messages API, dispatches tool calls, and appends everything
// back to the conversation store.
//
// Invariants:
//   - tool_use and the corresponding tool_result stay adjacent within a
//     turn so windowing can keep them together.
//   - all mutable state (conversation, entity store, repeat tracking) is
//     owned by the Runner instance; independent conversations in one
//     process never share state.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
package runner
