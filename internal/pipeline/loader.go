package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"episodestats/internal/analytics"
	"episodestats/internal/config"
	"episodestats/internal/decode"
	"episodestats/internal/loadmetrics"
	"episodestats/internal/logging"
	"episodestats/internal/normalize"
	"episodestats/internal/schema"
)

// Result is a completed load.
type Result struct {
	LoadID   string
	Path     string
	Encoding string
	Rejected []decode.Attempt
	Mapping  *schema.Mapping
	Table    *analytics.Table
	// Skipped counts malformed source rows; Dropped counts rows without a
	// usable season.
	Skipped  int
	Dropped  int
	Stats    normalize.Stats
	LoadedAt time.Time
	Duration time.Duration
}

// Loader runs the pipeline with fixed settings.
type Loader struct {
	decoder *decode.Decoder
	opts    analytics.Options
	logger  *slog.Logger
	metrics *loadmetrics.Recorder
	now     func() time.Time
}

// Option customizes a Loader.
type Option func(*Loader)

// WithMetrics records load metrics on rec.
func WithMetrics(rec *loadmetrics.Recorder) Option {
	return func(l *Loader) { l.metrics = rec }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader builds a loader from explicit settings.
func NewLoader(decoder *decode.Decoder, opts analytics.Options, logger *slog.Logger, options ...Option) *Loader {
	if decoder == nil {
		decoder = &decode.Decoder{}
	}
	l := &Loader{
		decoder: decoder,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// NewFromConfig builds a loader from configuration.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, options ...Option) (*Loader, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	decoder, err := decode.New(cfg.DelimiterRune(), cfg.Source.Encodings...)
	if err != nil {
		return nil, fmt.Errorf("configure decoder: %w", err)
	}
	opts := analytics.Options{
		AnomalyThreshold:    cfg.Analytics.AnomalyThreshold,
		MovingAverageWindow: cfg.Analytics.MovingAverageWindow,
		TopPercentile:       cfg.Analytics.TopPercentile,
	}
	return NewLoader(decoder, opts, logger, options...), nil
}

// Load runs every stage against the file at path.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	loadID := uuid.NewString()
	ctx = logging.WithSourcePath(logging.WithLoadID(ctx, loadID), path)
	logger := logging.WithContext(ctx, l.logger)
	start := l.now()

	res, err := l.run(logger, path)
	elapsed := l.now().Sub(start)
	if err != nil {
		l.metrics.ObserveLoad(resultLabel(err), elapsed)
		logging.ErrorWithContext(logger, "load failed", "load_failed",
			logging.Error(err),
			logging.Elapsed(elapsed),
			logging.Hint(errorHint(err)),
		)
		return nil, err
	}

	res.LoadID = loadID
	res.Path = path
	res.LoadedAt = start
	res.Duration = elapsed
	l.metrics.ObserveLoad(loadmetrics.ResultSuccess, elapsed)
	l.metrics.ObserveRows(res.Table.Len(), res.Dropped, res.Skipped)
	logger.Info("load completed",
		logging.EventType("load_complete"),
		logging.Episodes(res.Table.Len()),
		logging.Int("seasons", len(res.Table.Seasons())),
		logging.Encoding(res.Encoding),
		logging.Elapsed(elapsed),
	)
	return res, nil
}

func (l *Loader) run(logger *slog.Logger, path string) (*Result, error) {
	stage := stageLogger(logger, "decode")
	decoded, err := l.decoder.Read(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	stage.Debug("source decoded",
		logging.Encoding(decoded.Encoding),
		logging.RowCounts(
			logging.RowCount{Name: "decoded", N: len(decoded.Records)},
			logging.RowCount{Name: "skipped", N: decoded.Skipped},
		),
		logging.Int("rejected_encodings", len(decoded.Rejected)),
	)
	if decoded.Skipped > 0 {
		logging.WarnWithContext(stage, "malformed rows skipped", "decode_rows_skipped",
			logging.RowCounts(logging.RowCount{Name: "skipped", N: decoded.Skipped}),
			logging.Impact("skipped rows are excluded from the table"),
			logging.Hint("check quoting and field counts in the source file"),
		)
	}

	stage = stageLogger(logger, "resolve")
	mapping, err := schema.Resolve(decoded.Header)
	if err != nil {
		return nil, fmt.Errorf("resolve headers: %w", err)
	}
	for _, ignored := range mapping.Ignored {
		stage.Debug("duplicate header ignored",
			logging.String("header", ignored.Header),
			logging.String("field", string(ignored.Field)),
		)
	}

	stage = stageLogger(logger, "normalize")
	rows, stats := normalize.Rows(decoded.Records, mapping)
	if stats.Dropped > 0 {
		logging.WarnWithContext(stage, "rows without a season dropped", "normalize_rows_dropped",
			logging.RowCounts(logging.RowCount{Name: "dropped", N: stats.Dropped}),
			logging.Impact("dropped rows are excluded from the table"),
			logging.Hint("check the season column for non-numeric values"),
		)
	}
	stage.Debug("rows normalized",
		logging.RowCounts(
			logging.RowCount{Name: "kept", N: stats.Kept},
			logging.RowCount{Name: "dropped", N: stats.Dropped},
			logging.RowCount{Name: "missing_viewers", N: stats.MissingViewers},
		),
	)

	stage = stageLogger(logger, "analytics")
	table := analytics.Build(rows, l.opts)
	anomalies := table.Anomalies().Episodes()
	labels := make([]string, len(anomalies))
	for i, e := range anomalies {
		labels[i] = e.DisplayLabel()
	}
	stage.Debug("metrics derived",
		logging.Int("anomalies", len(anomalies)),
		logging.Any("anomalous_episodes", labels),
	)

	return &Result{
		Encoding: decoded.Encoding,
		Rejected: decoded.Rejected,
		Mapping:  mapping,
		Table:    table,
		Skipped:  decoded.Skipped,
		Dropped:  stats.Dropped,
		Stats:    stats,
	}, nil
}

// Inspect decodes path and resolves its headers without building a table.
// The decode result is returned even when resolution fails.
func (l *Loader) Inspect(path string) (*decode.Result, *schema.Mapping, error) {
	decoded, err := l.decoder.Read(path)
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	mapping, err := schema.Resolve(decoded.Header)
	if err != nil {
		return decoded, nil, fmt.Errorf("resolve headers: %w", err)
	}
	return decoded, mapping, nil
}

func stageLogger(logger *slog.Logger, stage string) *slog.Logger {
	return logger.With(logging.Stage(stage))
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, decode.ErrDataSource):
		return loadmetrics.ResultDataSource
	case errors.Is(err, schema.ErrSchema):
		return loadmetrics.ResultSchema
	default:
		return loadmetrics.ResultError
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, decode.ErrDataSource):
		return "check the file exists and is saved as utf-8, latin-1 or windows-1252"
	case errors.Is(err, schema.ErrSchema):
		return "rename headers so season, episode and viewer columns can be recognized"
	default:
		return "rerun with logging.level = \"debug\""
	}
}
