package analytics

import (
	"slices"
	"strconv"
	"time"
)

// Episode is one enriched row of the analytics table.
type Episode struct {
	Season             int
	EpisodeOrder       int
	EpisodeLabel       string
	Title              string
	USViewers          float64
	ViewersImputed     bool
	RunningTimeMinutes *float64
	Airdate            *time.Time
	Writers            []string
	Characters         []string
	Guests             []string

	ZScore         *float64
	IsAnomaly      bool
	IsTopDecile    bool
	MovingAverage5 *float64
}

// clone returns a deep copy so callers cannot mutate table state.
func (e Episode) clone() Episode {
	out := e
	out.RunningTimeMinutes = clonePtr(e.RunningTimeMinutes)
	out.Airdate = clonePtr(e.Airdate)
	out.ZScore = clonePtr(e.ZScore)
	out.MovingAverage5 = clonePtr(e.MovingAverage5)
	out.Writers = slices.Clone(e.Writers)
	out.Characters = slices.Clone(e.Characters)
	out.Guests = slices.Clone(e.Guests)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DisplayLabel is the episode label, falling back to the season order.
func (e Episode) DisplayLabel() string {
	if e.EpisodeLabel != "" {
		return e.EpisodeLabel
	}
	return "#" + strconv.Itoa(e.EpisodeOrder)
}
