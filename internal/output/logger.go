/*
PURPOSE:
  Provides a structured logger for Flux Runner.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - Consistency checks and per-scenario feasibility are reported.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels.
  - JSON handler for non-interactive runs.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - Setup rejects unknown levels and formats.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - Ensure Go 1.21+ is used.

RELATED FILES:
  - All.

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Setup replaces Logger with a handler of the given format ("text" or
// "json") and level ("debug", "info", "warn", "error") writing to w.
func Setup(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		SetLogger(slog.New(slog.NewTextHandler(w, opts)))
	case "json":
		SetLogger(slog.New(slog.NewJSONHandler(w, opts)))
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return nil
}

// Discard silences Logger. Used by tests.
func Discard() {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
