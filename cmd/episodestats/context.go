package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"episodestats/internal/config"
	"episodestats/internal/decode"
	"episodestats/internal/loadmetrics"
	"episodestats/internal/logging"
	"episodestats/internal/pipeline"
	"episodestats/internal/schema"
	"episodestats/internal/tablecache"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	servicesOnce sync.Once
	logger       *slog.Logger
	metrics      *loadmetrics.Recorder
	loader       *pipeline.Loader
	tables       *tablecache.Cache
	servicesErr  error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureServices wires the logger, metrics, loader and table cache once.
func (c *commandContext) ensureServices() error {
	c.servicesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.servicesErr = err
			return
		}
		outputs := []string{filepath.Join(cfg.Logging.Dir, "episodestats.log")}
		if c.verboseFlag != nil && *c.verboseFlag {
			outputs = append([]string{"stderr"}, outputs...)
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
		if err != nil {
			c.servicesErr = fmt.Errorf("init logging: %w", err)
			return
		}
		c.logger = logger
		c.metrics = loadmetrics.New()
		c.loader, err = pipeline.NewFromConfig(cfg, logger, pipeline.WithMetrics(c.metrics))
		if err != nil {
			c.servicesErr = err
			return
		}
		c.tables = tablecache.New(c.loader, cfg.CacheTTL(), logger, tablecache.WithMetrics(c.metrics))
	})
	return c.servicesErr
}

func (c *commandContext) load(ctx context.Context, path string) (*pipeline.Result, error) {
	if err := c.ensureServices(); err != nil {
		return nil, err
	}
	return c.tables.Get(ctx, path)
}

func (c *commandContext) inspect(path string) (*decode.Result, *schema.Mapping, error) {
	if err := c.ensureServices(); err != nil {
		return nil, nil, err
	}
	return c.loader.Inspect(path)
}

// flushMetrics writes the metrics textfile when one is configured and a
// command touched the pipeline.
func (c *commandContext) flushMetrics() error {
	if c.metrics == nil || c.config == nil || c.config.Metrics.TextfilePath == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.config.Metrics.TextfilePath); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
