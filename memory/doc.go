// Package memory owns the conversation: an append-only store of chat
// messages plus a minimal text-only transcript for persistence.
//
// Storage model:
//   - Messages are immutable once appended; readers get copied snapshots.
//   - Tool results are validated against previously issued tool_use ids
//     (strict by default, see WithLenientToolResults).
//   - The persisted transcript keeps only role + text; tool blocks are
//     transient and rebuilt from fresh tool calls on the next run.
package memory
