package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldLoadID is the standardized key for the identifier of one pipeline run.
	FieldLoadID = "load_id"
	// FieldSourcePath is the standardized key for the file being loaded.
	FieldSourcePath = "source_path"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldEncoding is the encoding a source file was decoded with.
	FieldEncoding = "encoding"
	// FieldEpisodes is the number of episodes in a table or view.
	FieldEpisodes = "episodes"
	// FieldDuration is the wall time of a load or export.
	FieldDuration = "duration"
	// FieldRows groups per-disposition row counts.
	FieldRows = "rows"
	// FieldExport groups the path, format and size of an export.
	FieldExport = "export"
)

type contextKey int

const (
	loadIDKey contextKey = iota
	sourcePathKey
)

// WithLoadID returns a child context carrying the pipeline load identifier.
func WithLoadID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loadIDKey, strings.TrimSpace(id))
}

// LoadIDFromContext returns the load identifier stored on ctx, if any.
func LoadIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(loadIDKey).(string)
	return id, ok && id != ""
}

// WithSourcePath returns a child context carrying the source file path.
func WithSourcePath(ctx context.Context, path string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sourcePathKey, path)
}

// SourcePathFromContext returns the source path stored on ctx, if any.
func SourcePathFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	path, ok := ctx.Value(sourcePathKey).(string)
	return path, ok && path != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := LoadIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldLoadID, id))
	}
	if path, ok := SourcePathFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSourcePath, path))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
