package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"episodestats/internal/config"
	"episodestats/internal/export"
	"episodestats/internal/logging"
)

type exportJSON struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Episodes int    `json:"episodes"`
	Bytes    int64  `json:"bytes"`
	SHA256   string `json:"sha256"`
	LoadID   string `json:"load_id"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var format string
	var lockWait time.Duration
	var filters episodeFilters

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the analytics table to CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			res, err := ctx.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view, err := applyFilters(res.Table, filters)
			if err != nil {
				return err
			}

			format = strings.ToLower(strings.TrimSpace(format))
			if format == "" {
				format = cfg.Export.Format
			}
			target, err := exportTarget(cfg, outPath, res.Path, format)
			if err != nil {
				return err
			}

			writeCtx := cmd.Context()
			if writeCtx == nil {
				writeCtx = context.Background()
			}
			writeCtx, cancel := context.WithTimeout(writeCtx, lockWait)
			defer cancel()

			digest, err := export.ToFile(writeCtx, target, view, format, cfg.DelimiterRune())
			if err != nil {
				return err
			}
			ctx.logger.Info("table exported",
				logging.EventType("export_complete"),
				logging.LoadID(res.LoadID),
				logging.Export(target, format, digest.Size),
				logging.Episodes(view.Len()),
			)

			if ctx.jsonOutput() {
				return writeJSON(cmd, exportJSON{
					Path:     target,
					Format:   format,
					Episodes: view.Len(),
					Bytes:    digest.Size,
					SHA256:   digest.SHA256,
					LoadID:   res.LoadID,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d episode(s) to %s\n", view.Len(), target)
			fmt.Fprintf(out, "Size: %d bytes\n", digest.Size)
			fmt.Fprintf(out, "SHA-256: %s\n", digest.SHA256)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to a timestamped file in export.dir)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: csv or xlsx (defaults to export.format)")
	cmd.Flags().DurationVar(&lockWait, "lock-wait", 10*time.Second, "How long to wait for a concurrent export of the same file")
	cmd.Flags().IntSliceVarP(&filters.seasons, "season", "s", nil, "Only include these seasons (repeatable)")
	cmd.Flags().StringVar(&filters.writer, "writer", "", "Only include episodes credited to this writer")
	cmd.Flags().StringVar(&filters.character, "character", "", "Only include episodes featuring this character")
	cmd.Flags().StringVar(&filters.from, "from", "", "Earliest air date (inclusive)")
	cmd.Flags().StringVar(&filters.to, "to", "", "Latest air date (inclusive)")
	cmd.Flags().BoolVar(&filters.anomalies, "anomalies", false, "Only include anomalous episodes")
	return cmd
}

func exportTarget(cfg *config.Config, outPath, source, format string) (string, error) {
	if strings.TrimSpace(outPath) == "" {
		return export.DefaultPath(cfg.Export.Dir, source, format, time.Now()), nil
	}
	expanded, err := config.ExpandPath(strings.TrimSpace(outPath))
	if err != nil {
		return "", fmt.Errorf("resolve export path: %w", err)
	}
	return expanded, nil
}
