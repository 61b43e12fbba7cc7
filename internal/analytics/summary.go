package analytics

import (
	"cmp"
	"slices"
)

// SeasonSummary aggregates one season of a table or view.
type SeasonSummary struct {
	Season          int
	Episodes        int
	MeanViewers     float64
	MedianViewers   float64
	MinViewers      float64
	MaxViewers      float64
	TopEpisode      Episode
	MeanRunningTime *float64
	Anomalies       int
	// Growth is the percent change of the season's mean viewers over the
	// previous season in the full table. It is nil when the previous mean is
	// zero and 0 for the first season.
	Growth *float64
}

// GroupBySeason summarizes each season present in the table, ascending.
func (t *Table) GroupBySeason() []SeasonSummary {
	var out []SeasonSummary
	groups := make(map[int][]*Episode)
	for i := 0; i < t.Len(); i++ {
		e := t.ref(i)
		groups[e.Season] = append(groups[e.Season], e)
	}
	for _, season := range t.Seasons() {
		eps := groups[season]
		values := make([]float64, len(eps))
		var runtimes []float64
		top := eps[0]
		summary := SeasonSummary{Season: season, Episodes: len(eps)}
		for i, e := range eps {
			values[i] = e.USViewers
			if e.USViewers > top.USViewers {
				top = e
			}
			if e.RunningTimeMinutes != nil {
				runtimes = append(runtimes, *e.RunningTimeMinutes)
			}
			if e.IsAnomaly {
				summary.Anomalies++
			}
		}
		summary.MeanViewers = mean(values)
		summary.MedianViewers = median(values)
		summary.MinViewers = slices.Min(values)
		summary.MaxViewers = slices.Max(values)
		summary.TopEpisode = top.clone()
		if len(runtimes) > 0 {
			avg := mean(runtimes)
			summary.MeanRunningTime = &avg
		}
		summary.Growth = clonePtr(t.growth[season])
		out = append(out, summary)
	}
	return out
}

// Overview holds dataset-level headline figures.
type Overview struct {
	Seasons           int
	Episodes          int
	MeanViewers       float64
	TopSeason         int
	TopSeasonMean     float64
	MaxSeasonEpisodes int
	Anomalies         int
}

// Overview summarizes the table. An empty table yields a zero Overview.
func (t *Table) Overview() Overview {
	if t.Len() == 0 {
		return Overview{}
	}
	summaries := t.GroupBySeason()
	ov := Overview{Seasons: len(summaries), Episodes: t.Len()}
	values := make([]float64, t.Len())
	for i := range values {
		values[i] = t.ref(i).USViewers
	}
	ov.MeanViewers = mean(values)
	for i, s := range summaries {
		if i == 0 || s.MeanViewers > ov.TopSeasonMean {
			ov.TopSeason = s.Season
			ov.TopSeasonMean = s.MeanViewers
		}
		ov.MaxSeasonEpisodes = max(ov.MaxSeasonEpisodes, s.Episodes)
		ov.Anomalies += s.Anomalies
	}
	return ov
}

// Count is a name with its number of appearances.
type Count struct {
	Name  string
	Count int
}

// TopCharacters returns the n most frequent characters. n <= 0 returns all.
func (t *Table) TopCharacters(n int) []Count {
	return t.topNames(n, func(e *Episode) []string { return e.Characters })
}

// TopWriters returns the n most frequently credited writers. n <= 0 returns all.
func (t *Table) TopWriters(n int) []Count {
	return t.topNames(n, func(e *Episode) []string { return e.Writers })
}

func (t *Table) topNames(n int, list func(*Episode) []string) []Count {
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		for _, name := range list(t.ref(i)) {
			counts[name]++
		}
	}
	out := make([]Count, 0, len(counts))
	for name, c := range counts {
		out = append(out, Count{Name: name, Count: c})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
