package analytics

import (
	"slices"
	"time"

	"golang.org/x/text/cases"
)

// Table is an immutable, randomly indexable set of enriched episodes.
// Filtered tables are views over the same episodes.
type Table struct {
	episodes []Episode
	view     []int
	growth   map[int]*float64
	opts     Options
}

// Len returns the number of episodes in the table or view.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	if t.view != nil {
		return len(t.view)
	}
	return len(t.episodes)
}

// At returns a copy of the i-th episode. It panics when i is out of range.
func (t *Table) At(i int) Episode {
	return t.ref(i).clone()
}

func (t *Table) ref(i int) *Episode {
	if t.view != nil {
		return &t.episodes[t.view[i]]
	}
	return &t.episodes[i]
}

// Episodes returns copies of every episode in order.
func (t *Table) Episodes() []Episode {
	out := make([]Episode, t.Len())
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Seasons lists the distinct season numbers in ascending order.
func (t *Table) Seasons() []int {
	var seasons []int
	for i := 0; i < t.Len(); i++ {
		s := t.ref(i).Season
		if n := len(seasons); n == 0 || seasons[n-1] != s {
			seasons = append(seasons, s)
		}
	}
	return seasons
}

// Options returns the settings the table was built with.
func (t *Table) Options() Options {
	return t.opts
}

func (t *Table) filter(keep func(*Episode) bool) *Table {
	view := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if keep(t.ref(i)) {
			if t.view != nil {
				view = append(view, t.view[i])
			} else {
				view = append(view, i)
			}
		}
	}
	return &Table{episodes: t.episodes, view: view, growth: t.growth, opts: t.opts}
}

// FilterSeasons keeps the given seasons. No arguments keeps everything.
func (t *Table) FilterSeasons(seasons ...int) *Table {
	if len(seasons) == 0 {
		return t.filter(func(*Episode) bool { return true })
	}
	return t.filter(func(e *Episode) bool { return slices.Contains(seasons, e.Season) })
}

// FilterWriter keeps episodes credited to name, compared case-insensitively.
func (t *Table) FilterWriter(name string) *Table {
	return t.filterMember(name, func(e *Episode) []string { return e.Writers })
}

// FilterCharacter keeps episodes featuring name, compared case-insensitively.
func (t *Table) FilterCharacter(name string) *Table {
	return t.filterMember(name, func(e *Episode) []string { return e.Characters })
}

func (t *Table) filterMember(name string, list func(*Episode) []string) *Table {
	fold := cases.Fold()
	want := fold.String(name)
	return t.filter(func(e *Episode) bool {
		for _, v := range list(e) {
			if fold.String(v) == want {
				return true
			}
		}
		return false
	})
}

// FilterDateRange keeps episodes that aired between from and to, inclusive.
// A zero bound is open. Episodes without an air date are excluded.
func (t *Table) FilterDateRange(from, to time.Time) *Table {
	from = calendarDay(from)
	to = calendarDay(to)
	return t.filter(func(e *Episode) bool {
		if e.Airdate == nil {
			return false
		}
		day := calendarDay(*e.Airdate)
		if !from.IsZero() && day.Before(from) {
			return false
		}
		if !to.IsZero() && day.After(to) {
			return false
		}
		return true
	})
}

// Anomalies keeps episodes flagged as anomalous within their season.
func (t *Table) Anomalies() *Table {
	return t.filter(func(e *Episode) bool { return e.IsAnomaly })
}

func calendarDay(ts time.Time) time.Time {
	if ts.IsZero() {
		return ts
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
