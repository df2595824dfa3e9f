/*
PURPOSE:
  Writes scenario results to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - One row per scenario: label, parameter, objective, flux distribution.

  Implementation-discovered:
  - Flux columns follow model reaction order so rows line up.
  - Infeasible scenarios keep their row with empty flux cells.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.ScenarioResult

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (crash resilience).
  - Mutex-guarded; parallel sweeps may write concurrently.

USAGE:
  w, err := output.NewCSVWriter("scenarios.csv", m.ReactionIDs())
  w.Write(result)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion together.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when ScenarioResult changes.
*/

package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/flux-runner/internal/model"
)

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	closer    io.Closer
	writer    *csv.Writer
	reactions []string
	mu        sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string, reactions []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSVWriter(f, f, reactions)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cw, nil
}

func newCSVWriter(w io.Writer, c io.Closer, reactions []string) (*CSVWriter, error) {
	cw := &CSVWriter{
		closer:    c,
		writer:    csv.NewWriter(w),
		reactions: append([]string(nil), reactions...),
	}

	header := []string{"group", "label", "parameter", "status", "objective"}
	for _, id := range reactions {
		header = append(header, "flux_"+id)
	}
	header = append(header, "explanation")
	if err := cw.writer.Write(header); err != nil {
		return nil, err
	}
	cw.writer.Flush()
	return cw, cw.writer.Error()
}

// Write writes a single result to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.ScenarioResult) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		r.Group,
		r.Label,
		formatFloat(r.Parameter),
		string(r.Status),
		formatFloat(r.Objective),
	}
	for _, id := range cw.reactions {
		v, ok := r.Fluxes[id]
		if !ok {
			record = append(record, "")
			continue
		}
		record = append(record, formatFloat(v))
	}
	record = append(record, r.Explanation)

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if cw.closer == nil {
		return nil
	}
	return cw.closer.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
