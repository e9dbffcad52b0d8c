// Package fsops performs sandboxed file access for the file-based tools.
// Roots come from TC_READ_ROOT / TC_WRITE_ROOT and default to the working
// directory; all paths are validated by the safety package.
package fsops

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/btang/toolchat/internal/safety"
)

var (
	rootsOnce    sync.Once
	absReadRoot  string
	absWriteRoot string
	initRootsErr error
)

// getRoots returns the cached absolute read/write roots, initialising them
// once on first use.
func getRoots() (string, string, error) {
	rootsOnce.Do(func() {
		read := os.Getenv("TC_READ_ROOT")
		write := os.Getenv("TC_WRITE_ROOT")
		absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(read, write)
	})
	return absReadRoot, absWriteRoot, initRootsErr
}

// ReadFile reads a file addressed by a relative path under the read root.
// Policy violations surface as safety.ToolError.
func ReadFile(relPath string) (string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return "", err
	}
	absPath, err := safety.ValidateRelPath(readRoot, relPath)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}
	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile writes content to a relative path under the write root,
// creating parent directories as needed.
func WriteFile(relPath, content string) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}
	absPath, err := safety.ValidateWritePath(writeRoot, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), 0o644)
}
