package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	if utf8.RuneCountInString(c.Source.Delimiter) != 1 {
		return fmt.Errorf("source.delimiter must be a single character, got %q", c.Source.Delimiter)
	}
	switch c.Source.Delimiter {
	case "\"", "\r", "\n":
		return fmt.Errorf("source.delimiter %q is not allowed", c.Source.Delimiter)
	}
	for _, name := range c.Source.Encodings {
		if _, ok := encodingAliases[name]; !ok {
			return fmt.Errorf("source.encodings: unsupported encoding %q (supported: utf-8, latin-1, windows-1252)", name)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if c.Analytics.AnomalyThreshold <= 0 {
		return errors.New("analytics.anomaly_threshold must be positive")
	}
	if c.Analytics.MovingAverageWindow <= 0 {
		return errors.New("analytics.moving_average_window must be positive")
	}
	if c.Analytics.TopPercentile <= 0 || c.Analytics.TopPercentile >= 1 {
		return errors.New("analytics.top_percentile must be between 0 and 1 (exclusive)")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Format {
	case "csv", "xlsx":
		return nil
	default:
		return fmt.Errorf("export.format: unsupported value %q (use csv or xlsx)", c.Export.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
