// Package tools defines tool contracts and the mock tool set.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Mock lookups: weather, people directory (feeds the entity store),
//     file-based CEO lookup, stock prices and news.
//   - Sandboxed file tools: read_file, write_file.
package tools
