package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"episodestats/internal/analytics"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type episodeJSON struct {
	Season             int      `json:"season"`
	EpisodeOrder       int      `json:"episode_order"`
	Episode            string   `json:"episode"`
	Title              string   `json:"title,omitempty"`
	USViewers          float64  `json:"us_viewers"`
	ViewersImputed     bool     `json:"viewers_imputed"`
	RunningTimeMinutes *float64 `json:"running_time_minutes,omitempty"`
	Airdate            string   `json:"airdate,omitempty"`
	Writers            []string `json:"writers"`
	Characters         []string `json:"characters"`
	Guests             []string `json:"guests"`
	ZScore             *float64 `json:"z_score,omitempty"`
	IsAnomaly          bool     `json:"is_anomaly"`
	IsTopDecile        bool     `json:"is_top_decile"`
	MovingAverage5     *float64 `json:"moving_average_5,omitempty"`
}

func toEpisodeJSON(e analytics.Episode) episodeJSON {
	out := episodeJSON{
		Season:             e.Season,
		EpisodeOrder:       e.EpisodeOrder,
		Episode:            e.EpisodeLabel,
		Title:              e.Title,
		USViewers:          e.USViewers,
		ViewersImputed:     e.ViewersImputed,
		RunningTimeMinutes: e.RunningTimeMinutes,
		Writers:            e.Writers,
		Characters:         e.Characters,
		Guests:             e.Guests,
		ZScore:             e.ZScore,
		IsAnomaly:          e.IsAnomaly,
		IsTopDecile:        e.IsTopDecile,
		MovingAverage5:     e.MovingAverage5,
	}
	if e.Airdate != nil {
		out.Airdate = e.Airdate.Format(dateLayout)
	}
	return out
}

type seasonJSON struct {
	Season          int      `json:"season"`
	Episodes        int      `json:"episodes"`
	MeanViewers     float64  `json:"mean_viewers"`
	MedianViewers   float64  `json:"median_viewers"`
	MinViewers      float64  `json:"min_viewers"`
	MaxViewers      float64  `json:"max_viewers"`
	TopEpisode      string   `json:"top_episode"`
	TopEpisodeTitle string   `json:"top_episode_title,omitempty"`
	MeanRunningTime *float64 `json:"mean_running_time,omitempty"`
	Anomalies       int      `json:"anomalies"`
	GrowthPercent   *float64 `json:"growth_percent"`
}

func toSeasonJSON(s analytics.SeasonSummary) seasonJSON {
	return seasonJSON{
		Season:          s.Season,
		Episodes:        s.Episodes,
		MeanViewers:     s.MeanViewers,
		MedianViewers:   s.MedianViewers,
		MinViewers:      s.MinViewers,
		MaxViewers:      s.MaxViewers,
		TopEpisode:      s.TopEpisode.DisplayLabel(),
		TopEpisodeTitle: s.TopEpisode.Title,
		MeanRunningTime: s.MeanRunningTime,
		Anomalies:       s.Anomalies,
		GrowthPercent:   s.Growth,
	}
}

type countJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func toCountJSON(counts []analytics.Count) []countJSON {
	out := make([]countJSON, len(counts))
	for i, c := range counts {
		out[i] = countJSON{Name: c.Name, Count: c.Count}
	}
	return out
}

type summaryJSON struct {
	LoadID            string      `json:"load_id"`
	Source            string      `json:"source"`
	Encoding          string      `json:"encoding"`
	LoadedAt          time.Time   `json:"loaded_at"`
	SeasonFilter      []int       `json:"season_filter,omitempty"`
	Seasons           int         `json:"seasons"`
	Episodes          int         `json:"episodes"`
	MeanViewers       float64     `json:"mean_viewers"`
	TopSeason         int         `json:"top_season"`
	TopSeasonMean     float64     `json:"top_season_mean"`
	MaxSeasonEpisodes int         `json:"max_season_episodes"`
	Anomalies         int         `json:"anomalies"`
	RowsSkipped       int         `json:"rows_skipped"`
	RowsDropped       int         `json:"rows_dropped"`
	TopCharacters     []countJSON `json:"top_characters"`
	TopWriters        []countJSON `json:"top_writers"`
}
