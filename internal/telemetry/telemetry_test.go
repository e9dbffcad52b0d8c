package telemetry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/btang/toolchat/internal/telemetry"
)

func TestTurnID_ContextRoundTrip(t *testing.T) {
	if _, ok := telemetry.TurnIDFromContext(context.Background()); ok {
		t.Fatal("expected no turn id on fresh context")
	}
	ctx := telemetry.WithTurnID(context.Background(), "turn-1")
	id, ok := telemetry.TurnIDFromContext(ctx)
	if !ok || id != "turn-1" {
		t.Fatalf("round trip failed: id=%q ok=%v", id, ok)
	}
}

func TestEmit_DisabledWritesNothing(t *testing.T) {
	t.Setenv("TC_OBSERVE_JSON", "0")
	dir := chdirTemp(t)

	telemetry.Emit("noop", map[string]any{"k": "v"})
	if _, err := os.Stat(filepath.Join(dir, ".toolchat")); !os.IsNotExist(err) {
		t.Fatalf("expected no event dir when disabled, stat err=%v", err)
	}
}

func TestEmit_WritesJSONLine(t *testing.T) {
	t.Setenv("TC_OBSERVE_JSON", "1")
	dir := chdirTemp(t)

	telemetry.Emit("tool_exec", map[string]any{"tool_name": "get_weather_from_city"})

	b, err := os.ReadFile(filepath.Join(dir, ".toolchat", "events.jsonl"))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if m["event"] != "tool_exec" || m["tool_name"] != "get_weather_from_city" || m["time"] == nil {
		t.Fatalf("unexpected event: %v", m)
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}
