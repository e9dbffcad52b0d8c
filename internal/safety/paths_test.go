package safety_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/btang/toolchat/internal/safety"
)

func TestValidateRelPath_AllowsInsidePaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}

	got, err := safety.ValidateRelPath(root, filepath.Join("data", "ceos.txt"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if want := filepath.Join(root, "data", "ceos.txt"); got != want {
		t.Fatalf("resolved path: got %q want %q", got, want)
	}
}

func TestValidateRelPath_RejectsAbsolute(t *testing.T) {
	root := t.TempDir()
	_, err := safety.ValidateRelPath(root, "/etc/passwd")
	assertToolError(t, err, "ERR_PATH_OUTSIDE_SANDBOX")
}

func TestValidateRelPath_RejectsTraversal(t *testing.T) {
	root := t.TempDir()
	_, err := safety.ValidateRelPath(root, filepath.Join("..", "escape.txt"))
	assertToolError(t, err, "ERR_PATH_OUTSIDE_SANDBOX")
}

func TestValidateRelPath_RejectsProtectedDirs(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{".git/config", ".toolchat/events.jsonl"} {
		_, err := safety.ValidateRelPath(root, filepath.FromSlash(p))
		assertToolError(t, err, "ERR_DENIED_PATH")
	}
}

func TestValidateRelPath_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "sneaky")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	_, err := safety.ValidateRelPath(root, filepath.Join("sneaky", "file.txt"))
	assertToolError(t, err, "ERR_PATH_OUTSIDE_SANDBOX")
}

func TestInitSandboxRoot_Defaults(t *testing.T) {
	read, write, err := safety.InitSandboxRoot("", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if read == "" || read != write {
		t.Fatalf("expected write root to default to read root: read=%q write=%q", read, write)
	}
}

func assertToolError(t *testing.T, err error, code string) {
	t.Helper()
	var te safety.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if te.Code != code {
		t.Fatalf("ToolError code: got %q want %q", te.Code, code)
	}
}
