package normalize

import (
	"strings"
	"time"

	"episodestats/internal/decode"
	"episodestats/internal/schema"
)

// Row is a partially typed episode. Viewers may still be missing; the
// analytics stage imputes them.
type Row struct {
	Line               int
	Season             int
	EpisodeLabel       string
	Title              string
	USViewers          *float64
	RunningTimeMinutes *float64
	Airdate            *time.Time
	Writers            []string
	Characters         []string
	Guests             []string
}

// Stats summarizes what normalization kept and discarded.
type Stats struct {
	Input          int
	Kept           int
	Dropped        int
	MissingViewers int
	// Unparsed counts non-blank cells per field that no parser accepted.
	Unparsed map[schema.Field]int
}

// Rows converts decoded records into typed rows. Records without a usable
// season are dropped. It panics when mapping is nil.
func Rows(records []decode.Record, mapping *schema.Mapping) ([]Row, Stats) {
	if mapping == nil {
		panic("normalize: nil mapping")
	}
	stats := Stats{Input: len(records), Unparsed: map[schema.Field]int{}}
	rows := make([]Row, 0, len(records))

	miss := func(field schema.Field, value string) {
		if !IsMissing(value) {
			stats.Unparsed[field]++
		}
	}

	for _, rec := range records {
		value := func(f schema.Field) string { return mapping.Value(rec.Fields, f) }

		rawSeason := value(schema.Season)
		season, ok := Season(rawSeason)
		if !ok {
			miss(schema.Season, rawSeason)
			stats.Dropped++
			continue
		}

		row := Row{
			Line:         rec.Line,
			Season:       season,
			EpisodeLabel: strings.TrimSpace(value(schema.EpisodeRaw)),
			Title:        strings.TrimSpace(stripCitations(value(schema.Title))),
			Writers:      List(value(schema.Writers)),
			Characters:   List(value(schema.Characters)),
			Guests:       List(value(schema.Guests)),
		}
		if IsMissing(row.Title) {
			row.Title = ""
		}

		rawViewers := value(schema.USViewers)
		if v, ok := Number(rawViewers); ok {
			row.USViewers = &v
		} else {
			miss(schema.USViewers, rawViewers)
			stats.MissingViewers++
		}

		rawRuntime := value(schema.RunningTimeRaw)
		if v, ok := Duration(rawRuntime); ok {
			row.RunningTimeMinutes = &v
		} else {
			miss(schema.RunningTimeRaw, rawRuntime)
		}

		rawDate := value(schema.Airdate)
		if t, ok := Date(rawDate); ok {
			row.Airdate = &t
		} else {
			miss(schema.Airdate, rawDate)
		}

		rows = append(rows, row)
	}
	stats.Kept = len(rows)
	return rows, stats
}
