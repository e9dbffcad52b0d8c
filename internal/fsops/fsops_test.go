package fsops_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btang/toolchat/internal/fsops"
)

var sandbox string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fsops-tests-")
	if err != nil {
		panic(err)
	}
	// Roots are cached on first use, so they must be set before any test runs.
	_ = os.Setenv("TC_READ_ROOT", dir)
	_ = os.Setenv("TC_WRITE_ROOT", dir)
	sandbox = dir

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestReadFile_RoundTripWithWrite(t *testing.T) {
	rel := filepath.Join(t.Name(), "note.txt")
	if err := fsops.WriteFile(rel, "hello sandbox\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fsops.ReadFile(rel)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello sandbox\n" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestReadFile_DirectoryRejected(t *testing.T) {
	if err := os.MkdirAll(filepath.Join(sandbox, t.Name()), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}
	_, err := fsops.ReadFile(t.Name())
	if err == nil || !strings.Contains(err.Error(), "ERR_NOT_A_FILE") {
		t.Fatalf("expected ERR_NOT_A_FILE, got %v", err)
	}
}

func TestReadFile_OutsideSandboxRejected(t *testing.T) {
	_, err := fsops.ReadFile(filepath.Join("..", "outside.txt"))
	if err == nil || !strings.Contains(err.Error(), "ERR_PATH_OUTSIDE_SANDBOX") {
		t.Fatalf("expected sandbox violation, got %v", err)
	}
}

func TestWriteFile_CreatesParents(t *testing.T) {
	rel := filepath.Join(t.Name(), "deep", "nested", "file.txt")
	if err := fsops.WriteFile(rel, "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sandbox, rel)); err != nil {
		t.Fatalf("file missing after write: %v", err)
	}
}
