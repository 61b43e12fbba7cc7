package config

import (
	"fmt"
	"os"
	"strings"
)

// encodingAliases maps accepted spellings to canonical encoding names.
var encodingAliases = map[string]string{
	"utf-8":        "utf-8",
	"utf8":         "utf-8",
	"latin-1":      "latin-1",
	"latin1":       "latin-1",
	"iso-8859-1":   "latin-1",
	"iso8859-1":    "latin-1",
	"windows-1252": "windows-1252",
	"cp1252":       "windows-1252",
	"win1252":      "windows-1252",
}

func (c *Config) normalize() error {
	c.normalizeSource()
	if err := c.normalizeExport(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return c.normalizeMetrics()
}

func (c *Config) normalizeSource() {
	switch c.Source.Delimiter {
	case "":
		c.Source.Delimiter = defaultDelimiter
	case `\t`, "tab":
		c.Source.Delimiter = "\t"
	}

	if len(c.Source.Encodings) == 0 {
		c.Source.Encodings = append([]string(nil), defaultEncodings...)
		return
	}
	encodings := make([]string, 0, len(c.Source.Encodings))
	seen := make(map[string]struct{}, len(c.Source.Encodings))
	for _, name := range c.Source.Encodings {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if canonical, ok := encodingAliases[normalized]; ok {
			normalized = canonical
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		encodings = append(encodings, normalized)
	}
	if len(encodings) == 0 {
		encodings = append(encodings, defaultEncodings...)
	}
	c.Source.Encodings = encodings
}

func (c *Config) normalizeExport() error {
	var err error
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = defaultExportDir
	}
	if c.Export.Dir, err = expandPath(c.Export.Dir); err != nil {
		return fmt.Errorf("export.dir: %w", err)
	}
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	if c.Export.Format == "" {
		c.Export.Format = defaultExportFormat
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("EPISODESTATS_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	path := strings.TrimSpace(c.Metrics.TextfilePath)
	if path == "" {
		c.Metrics.TextfilePath = ""
		return nil
	}
	var err error
	if c.Metrics.TextfilePath, err = expandPath(path); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}
