/*
PURPOSE:
  Writes scenario results to a JSON Lines file (NDJSON).
  Optimized for machine parsing (jq, pandas.read_json(lines=True)).

REQUIREMENTS:
  User-specified:
  - JSON output for easier parsing.

  Implementation-discovered:
  - JSON Lines is append-friendly; each line carries the run ID.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.ScenarioResult

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("scenarios.jsonl", runID)
  w.Write(result)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update if we switch to plain JSON array (not recommended for streaming).
*/

package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/daryltucker/flux-runner/internal/model"
)

// Record is one JSON line.
type Record struct {
	RunID string `json:"run_id"`
	model.ScenarioResult
}

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	closer  io.Closer
	encoder *json.Encoder
	runID   string
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path, runID string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return newJSONWriter(f, f, runID), nil
}

func newJSONWriter(w io.Writer, c io.Closer, runID string) *JSONWriter {
	return &JSONWriter{
		closer:  c,
		encoder: json.NewEncoder(w),
		runID:   runID,
	}
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(r model.ScenarioResult) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(Record{RunID: jw.runID, ScenarioResult: r})
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	if jw.closer == nil {
		return nil
	}
	return jw.closer.Close()
}
