package config

const (
	defaultDelimiter           = ","
	defaultCacheTTLSeconds     = 300
	defaultAnomalyThreshold    = 2.0
	defaultMovingAverageWindow = 5
	defaultTopPercentile       = 0.90
	defaultExportDir           = "~/.local/share/episodestats/exports"
	defaultExportFormat        = "csv"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogDir              = "~/.local/share/episodestats/logs"
)

var defaultEncodings = []string{"utf-8", "latin-1", "windows-1252"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Source: Source{
			Delimiter: defaultDelimiter,
			Encodings: append([]string(nil), defaultEncodings...),
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Analytics: Analytics{
			AnomalyThreshold:    defaultAnomalyThreshold,
			MovingAverageWindow: defaultMovingAverageWindow,
			TopPercentile:       defaultTopPercentile,
		},
		Export: Export{
			Dir:    defaultExportDir,
			Format: defaultExportFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
