package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btang/toolchat/internal/fsops"
)

type ReadFileInput struct {
	Path string `json:"path" jsonschema_description:"Relative file path within the workspace."`
}

type WriteFileInput struct {
	Path    string `json:"path" jsonschema_description:"Target relative file path within the workspace."`
	Content string `json:"content" jsonschema_description:"Content to write to the file."`
}

// readFileRuneCap bounds read_file output so a single tool result cannot
// blow through the windowing token budget.
const readFileRuneCap = 12_000

const truncationSentinel = "-- truncated --\n"

var ReadFileDefinition = ToolDefinition{
	Name:        "read_file",
	Description: "Read the contents of a file addressed by a relative path within the workspace. Directory paths and unsafe paths are rejected.",
	InputSchema: GenerateSchema[ReadFileInput](),
	Function:    readFile,
}

var WriteFileDefinition = ToolDefinition{
	Name:        "write_file",
	Description: "Write the given content to a file addressed by a relative path within the workspace, creating it if needed.",
	InputSchema: GenerateSchema[WriteFileInput](),
	Function:    writeFile,
}

func readFile(input json.RawMessage) (string, error) {
	var in ReadFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	content, err := fsops.ReadFile(in.Path)
	if err != nil {
		return "", err
	}
	if r := []rune(content); len(r) > readFileRuneCap {
		content = string(r[:readFileRuneCap])
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += truncationSentinel
	}
	return content, nil
}

func writeFile(input json.RawMessage) (string, error) {
	var in WriteFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := fsops.WriteFile(in.Path, in.Content); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully wrote to %s", in.Path), nil
}
