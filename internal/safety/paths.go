// Package safety provides path policy for the sandboxed file tools.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body surfaced to the model inside
// a tool_result.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns compact single-line JSON to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// protected directories the tools may never touch, relative to the root.
var protected = []string{".git", ".toolchat"}

// InitSandboxRoot resolves absolute read and write roots. Empty readRoot
// defaults to the working directory; empty writeRoot defaults to readRoot.
func InitSandboxRoot(readRoot, writeRoot string) (absRead, absWrite string, err error) {
	if readRoot == "" {
		readRoot, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}
	if absRead, err = resolveRoot(readRoot); err != nil {
		return "", "", err
	}
	if absWrite, err = resolveRoot(writeRoot); err != nil {
		return "", "", err
	}
	return absRead, absWrite, nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(%q): %w", root, err)
	}
	// Resolve symlinks where possible so later boundary checks are stable;
	// a non-existent root keeps its absolute form.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// ValidateRelPath resolves relPath against absRoot and returns an absolute
// path inside the sandbox. Absolute inputs, parent traversal, symlink
// escapes, and the protected directories are all rejected with a ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate := filepath.Join(absRoot, cleaned)

	// Best-effort symlink resolution: the whole candidate when it exists,
	// otherwise its parent rejoined with the leaf (reveals escapes through
	// a symlinked parent even when the leaf doesn't exist yet).
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if resolvedParent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the sandbox root"}
	}

	slashRel := filepath.ToSlash(rel)
	for _, p := range protected {
		if slashRel == p || strings.HasPrefix(slashRel, p+"/") {
			return "", ToolError{Code: "ERR_DENIED_PATH", Message: "access under " + p + "/ is not allowed"}
		}
	}
	return candidate, nil
}

// ValidateWritePath applies the same policy against the write root.
// Kept separate so read and write roots can diverge.
func ValidateWritePath(absWriteRoot, relPath string) (string, error) {
	return ValidateRelPath(absWriteRoot, relPath)
}
