package analytics

import (
	"cmp"
	"math"
	"slices"

	"episodestats/internal/normalize"
)

// Build derives the analytics table from normalized rows. It never fails;
// metrics whose preconditions are not met are left unset.
func Build(rows []normalize.Row, opts Options) *Table {
	opts = opts.withDefaults()
	table := &Table{opts: opts, growth: map[int]*float64{}}
	if len(rows) == 0 {
		return table
	}

	episodes := make([]Episode, len(rows))
	nextOrder := make(map[int]int)
	observed := make(map[int][]float64)
	var all []float64
	for i, r := range rows {
		nextOrder[r.Season]++
		episodes[i] = Episode{
			Season:             r.Season,
			EpisodeOrder:       nextOrder[r.Season],
			EpisodeLabel:       r.EpisodeLabel,
			Title:              r.Title,
			RunningTimeMinutes: clonePtr(r.RunningTimeMinutes),
			Airdate:            clonePtr(r.Airdate),
			Writers:            nonNil(r.Writers),
			Characters:         nonNil(r.Characters),
			Guests:             nonNil(r.Guests),
		}
		if r.USViewers != nil {
			episodes[i].USViewers = *r.USViewers
			observed[r.Season] = append(observed[r.Season], *r.USViewers)
			all = append(all, *r.USViewers)
		}
	}
	imputeViewers(episodes, rows, observed, all)

	// Stable sort keeps row order inside a season, which is episode order.
	slices.SortStableFunc(episodes, func(a, b Episode) int { return cmp.Compare(a.Season, b.Season) })

	seasonMeans := make([]seasonMean, 0, len(nextOrder))
	forEachSeason(episodes, func(season int, segment []Episode) {
		values := viewerValues(segment)
		mu := mean(values)
		seasonMeans = append(seasonMeans, seasonMean{season: season, mean: mu})
		flagAnomalies(segment, values, mu, opts.AnomalyThreshold)
		movingAverage(segment, opts.MovingAverageWindow)
	})

	cutoff := percentile(viewerValues(episodes), opts.TopPercentile)
	for i := range episodes {
		episodes[i].IsTopDecile = episodes[i].USViewers >= cutoff
	}

	for i, sm := range seasonMeans {
		switch {
		case i == 0:
			zero := 0.0
			table.growth[sm.season] = &zero
		case seasonMeans[i-1].mean == 0:
			table.growth[sm.season] = nil
		default:
			prev := seasonMeans[i-1].mean
			g := (sm.mean - prev) / prev * 100
			table.growth[sm.season] = &g
		}
	}

	table.episodes = episodes
	return table
}

type seasonMean struct {
	season int
	mean   float64
}

// imputeViewers fills missing counts with the season median, then the
// dataset median, then zero.
func imputeViewers(episodes []Episode, rows []normalize.Row, observed map[int][]float64, all []float64) {
	global := 0.0
	if len(all) > 0 {
		global = median(all)
	}
	medians := make(map[int]float64)
	for i, r := range rows {
		if r.USViewers != nil {
			continue
		}
		v, ok := medians[r.Season]
		if !ok {
			v = global
			if vals := observed[r.Season]; len(vals) > 0 {
				v = median(vals)
			}
			medians[r.Season] = v
		}
		episodes[i].USViewers = v
		episodes[i].ViewersImputed = true
	}
}

// forEachSeason calls fn with each contiguous season segment of a sorted
// slice. Segments alias the input.
func forEachSeason(episodes []Episode, fn func(season int, segment []Episode)) {
	start := 0
	for i := 1; i <= len(episodes); i++ {
		if i == len(episodes) || episodes[i].Season != episodes[start].Season {
			fn(episodes[start].Season, episodes[start:i])
			start = i
		}
	}
}

func flagAnomalies(segment []Episode, values []float64, mu, threshold float64) {
	if distinctCount(values) < 2 {
		return
	}
	sd := populationStd(values, mu)
	if sd == 0 || math.IsNaN(sd) {
		return
	}
	for i := range segment {
		z := (segment[i].USViewers - mu) / sd
		segment[i].ZScore = &z
		segment[i].IsAnomaly = math.Abs(z) >= threshold-anomalyTolerance
	}
}

func movingAverage(segment []Episode, window int) {
	for i := range segment {
		start := max(0, i-window+1)
		avg := mean(viewerValues(segment[start : i+1]))
		segment[i].MovingAverage5 = &avg
	}
}

func viewerValues(episodes []Episode) []float64 {
	values := make([]float64, len(episodes))
	for i, e := range episodes {
		values[i] = e.USViewers
	}
	return values
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
