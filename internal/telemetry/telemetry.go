// Package telemetry emits JSONL observability events for window
// preparation and tool execution, gated behind TC_OBSERVE_JSON=1.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func observeEnabled() bool {
	return os.Getenv("TC_OBSERVE_JSON") == "1"
}

// Emit writes a single JSON line to .toolchat/events.jsonl when
// TC_OBSERVE_JSON=1, augmenting fields with the event name and an
// RFC3339Nano timestamp. Emission failures are reported on stderr and
// never affect the caller.
func Emit(name string, fields map[string]any) {
	if !observeEnabled() {
		return
	}

	// Shallow copy so the caller's map isn't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	dir := ".toolchat"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}
	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
