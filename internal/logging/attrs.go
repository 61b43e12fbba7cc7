package logging

import (
	"context"
	"log/slog"
	"time"
)

type Attr = slog.Attr

// Generic helpers for one-off keys.

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Load and export attributes. Using these keeps keys identical across the
// pipeline, the cache and the CLI so log queries can join on them.

func LoadID(id string) Attr { return slog.String(FieldLoadID, id) }

func SourcePath(path string) Attr { return slog.String(FieldSourcePath, path) }

func Stage(name string) Attr { return slog.String(FieldStage, name) }

func EventType(eventType string) Attr { return slog.String(FieldEventType, eventType) }

func Hint(hint string) Attr { return slog.String(FieldErrorHint, hint) }

func Impact(impact string) Attr { return slog.String(FieldImpact, impact) }

func Encoding(name string) Attr { return slog.String(FieldEncoding, name) }

func Episodes(n int) Attr { return slog.Int(FieldEpisodes, n) }

func Elapsed(d time.Duration) Attr { return slog.Duration(FieldDuration, d) }

// RowCounts groups row dispositions of one stage under the "rows" key
// (rows.kept, rows.dropped in console output).
func RowCounts(counts ...RowCount) Attr {
	attrs := make([]any, 0, len(counts))
	for _, c := range counts {
		attrs = append(attrs, slog.Int(c.Name, c.N))
	}
	return slog.Group(FieldRows, attrs...)
}

// RowCount is one named row tally for RowCounts.
type RowCount struct {
	Name string
	N    int
}

// Export describes a written export file.
func Export(path, format string, bytes int64) Attr {
	return slog.Group(FieldExport,
		slog.String("path", path),
		slog.String("format", format),
		slog.Int64("bytes", bytes),
	)
}

func toArgs(attrs []Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func withDefault(attrs []Attr, key, value string) []Attr {
	for _, a := range attrs {
		if a.Key == key {
			return attrs
		}
	}
	return append(attrs, slog.String(key, value))
}

// WarnWithContext logs a load warning. Missing event_type, error_hint and
// impact fields receive defaults so every warning says what happened to the
// table and what to check in the source file.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check the source file")
	attrs = withDefault(attrs, FieldImpact, "rows were left out of the table")
	logger.Warn(msg, toArgs(attrs)...)
}

// ErrorWithContext logs a failed load or export with enforced event_type and
// error_hint fields.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check the source file")
	logger.Error(msg, toArgs(attrs)...)
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
