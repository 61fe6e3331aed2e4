// Package output writes machine-readable results for repoctx.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer handles structured output.
type Writer struct {
	encoder *json.Encoder
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{encoder: enc}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// Stderr is where WriteError reports.
var Stderr io.Writer = os.Stderr

// WriteError reports err as a one-line JSON object on Stderr. A multi-line
// message, as produced by errors.Join, keeps its first line under "error"
// and lists the rest under "details".
func WriteError(err error) {
	lines := strings.Split(err.Error(), "\n")
	msg := map[string]any{"error": strings.TrimSuffix(lines[0], ":")}
	if len(lines) > 1 {
		msg["details"] = lines[1:]
	}

	if encErr := json.NewEncoder(Stderr).Encode(msg); encErr != nil {
		fmt.Fprintln(Stderr, err)
	}
}
