package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	logTimestampLayout = "2006-01-02 15:04:05"
	calendarDateLayout = "2006-01-02"
)

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(logTimestampLayout)
}

// formatTime renders air dates, which are stored as UTC midnight, without a
// clock part; every other time uses the log timestamp layout.
func formatTime(ts time.Time) string {
	if ts.Location() == time.UTC && ts.Equal(ts.Truncate(24*time.Hour)) {
		return ts.Format(calendarDateLayout)
	}
	return formatTimestamp(ts)
}

// attrString renders a header field (component, load ID, stage) unquoted.
func attrString(v slog.Value) string {
	return render(v, false)
}

// formatValue renders an attribute value for the console, quoting strings
// that would otherwise be ambiguous.
func formatValue(v slog.Value) string {
	return render(v, true)
}

func render(v slog.Value, quote bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	case slog.KindTime:
		return formatTime(v.Time())
	case slog.KindAny:
		s = anyString(v.Any())
	default:
		s = v.String()
	}
	if quote && needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

// anyString flattens the non-scalar values the pipeline logs: errors, name
// lists (writers, characters) and optional floats.
func anyString(value any) string {
	switch x := value.(type) {
	case error:
		return x.Error()
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	case *float64:
		if x == nil {
			return "-"
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(value)
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
