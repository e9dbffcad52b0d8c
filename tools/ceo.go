package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btang/toolchat/internal/fsops"
)

type LookupCEOInput struct {
	Company string `json:"company" jsonschema_description:"Company name, e.g. openai"`
}

// DefaultCEOFile is the default data file for the CEO lookup, relative to
// the sandbox read root. One record per line: "company: ceo".
const DefaultCEOFile = "data/ceos.txt"

// LookupCEODefinition returns the file-based CEO lookup tool. dataFile is a
// path relative to the sandbox read root; empty selects DefaultCEOFile.
func LookupCEODefinition(dataFile string) ToolDefinition {
	if dataFile == "" {
		dataFile = DefaultCEOFile
	}
	return ToolDefinition{
		Name:        "lookup_ceo",
		Description: "Look up the current CEO of a company from the reference data file.",
		InputSchema: GenerateSchema[LookupCEOInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in LookupCEOInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			company := strings.ToLower(strings.TrimSpace(in.Company))
			if company == "" {
				return "", fmt.Errorf("company is required")
			}

			content, err := fsops.ReadFile(dataFile)
			if err != nil {
				return "", err
			}
			for _, line := range strings.Split(content, "\n") {
				name, ceo, ok := strings.Cut(line, ":")
				if !ok {
					continue
				}
				if strings.ToLower(strings.TrimSpace(name)) == company {
					return strings.TrimSpace(ceo), nil
				}
			}
			return "", fmt.Errorf("company %q not in %s", company, dataFile)
		},
	}
}
