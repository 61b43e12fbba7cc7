package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"episodestats/internal/analytics"
)

// Sheet names in exported workbooks.
const (
	SheetEpisodes = "Episodes"
	SheetSeasons  = "Seasons"
)

// SeasonHeader is the column order of the Seasons sheet.
var SeasonHeader = []string{
	"Season", "Episodes", "Mean viewers", "Median viewers", "Min viewers", "Max viewers",
	"Top episode", "Top episode title", "Mean running time", "Anomalies", "Growth (%)",
}

// WriteXLSX writes an Episodes sheet and a per-season Seasons sheet.
func WriteXLSX(w io.Writer, table *analytics.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEpisodes); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSeasons); err != nil {
		return fmt.Errorf("add seasons sheet: %w", err)
	}

	if err := setRow(f, SheetEpisodes, 1, toAny(EpisodeHeader)); err != nil {
		return err
	}
	for i := 0; i < table.Len(); i++ {
		if err := setRow(f, SheetEpisodes, i+2, episodeCells(table.At(i))); err != nil {
			return err
		}
	}

	if err := setRow(f, SheetSeasons, 1, toAny(SeasonHeader)); err != nil {
		return err
	}
	for i, s := range table.GroupBySeason() {
		if err := setRow(f, SheetSeasons, i+2, seasonCells(s)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetEpisodes, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func episodeCells(e analytics.Episode) []any {
	date := ""
	if e.Airdate != nil {
		date = e.Airdate.Format(isoDate)
	}
	return []any{
		e.Season,
		e.EpisodeLabel,
		e.Title,
		e.USViewers,
		optional(e.RunningTimeMinutes),
		date,
		ListLiteral(e.Writers),
		ListLiteral(e.Characters),
		ListLiteral(e.Guests),
		e.EpisodeOrder,
		e.ViewersImputed,
		optional(e.ZScore),
		e.IsAnomaly,
		e.IsTopDecile,
		optional(e.MovingAverage5),
	}
}

func seasonCells(s analytics.SeasonSummary) []any {
	return []any{
		s.Season,
		s.Episodes,
		s.MeanViewers,
		s.MedianViewers,
		s.MinViewers,
		s.MaxViewers,
		s.TopEpisode.DisplayLabel(),
		s.TopEpisode.Title,
		optional(s.MeanRunningTime),
		s.Anomalies,
		optional(s.Growth),
	}
}

// optional maps nil to an empty cell.
func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
