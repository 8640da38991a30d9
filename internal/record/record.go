// Package record defines the single-line JSON wire format shared by the
// emitter and the decoder.
package record

import (
	"encoding/json"
	"fmt"

	"lumen/internal/level"
	"lumen/internal/normalize"
)

// Record is one log entry. It is built fresh per emit call, serialized once,
// and never retained.
type Record struct {
	Level     level.Severity
	LevelN    int
	Timestamp string // RFC 3339; empty when timestamps are disabled
	Namespace string
	Message   string
	Context   map[string]any
}

// wire fixes the field order of the serialized object: level, level_n,
// timestamp (omitted entirely when empty), namespace, message, context.
type wire struct {
	Level     level.Severity `json:"level"`
	LevelN    int            `json:"level_n"`
	Timestamp string         `json:"timestamp,omitempty"`
	Namespace string         `json:"namespace"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
}

// Encode serializes r to one line of JSON, applying fn to every context field
// during the walk. The returned string carries no trailing newline.
func Encode(r Record, fn normalize.Func) (string, error) {
	ctx := r.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	out, err := json.Marshal(wire{
		Level:     r.Level,
		LevelN:    r.LevelN,
		Timestamp: r.Timestamp,
		Namespace: r.Namespace,
		Message:   r.Message,
		Context:   normalize.Walk(ctx, fn),
	})
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(out), nil
}
