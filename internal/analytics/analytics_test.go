package analytics_test

import (
	"math"
	"testing"
	"time"

	"episodestats/internal/analytics"
	"episodestats/internal/normalize"
)

func viewers(v float64) *float64 { return &v }

func seasonRows(season int, values ...*float64) []normalize.Row {
	rows := make([]normalize.Row, len(values))
	for i, v := range values {
		rows[i] = normalize.Row{Season: season, USViewers: v}
	}
	return rows
}

func floats(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = viewers(v)
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuildFlagsOnlyTheOutlier(t *testing.T) {
	table := analytics.Build(seasonRows(1, floats(1, 1, 1, 1, 10)...), analytics.DefaultOptions())
	for i := 0; i < table.Len(); i++ {
		e := table.At(i)
		want := e.USViewers == 10
		if e.IsAnomaly != want {
			t.Fatalf("episode %d (%.0f viewers): anomaly=%v, want %v", e.EpisodeOrder, e.USViewers, e.IsAnomaly, want)
		}
		if e.ZScore == nil {
			t.Fatalf("expected z-score on episode %d", e.EpisodeOrder)
		}
	}
	if got := table.Anomalies().Len(); got != 1 {
		t.Fatalf("expected one anomaly, got %d", got)
	}
}

func TestBuildZeroVarianceHasNoAnomalies(t *testing.T) {
	table := analytics.Build(seasonRows(1, floats(0.1, 0.1, 0.1, 0.1)...), analytics.DefaultOptions())
	for _, e := range table.Episodes() {
		if e.IsAnomaly || e.ZScore != nil {
			t.Fatalf("expected no anomaly data for constant season, got %+v", e)
		}
	}
}

func TestBuildImputesViewers(t *testing.T) {
	var rows []normalize.Row
	rows = append(rows, seasonRows(1, viewers(2), nil, viewers(4), viewers(10))...)
	rows = append(rows, seasonRows(2, nil, nil)...)
	table := analytics.Build(rows, analytics.DefaultOptions())

	got := table.Episodes()
	if !got[1].ViewersImputed || got[1].USViewers != 4 {
		t.Fatalf("expected season median 4, got %+v", got[1])
	}
	// Dataset median of the observed values 2, 4, 10.
	for _, e := range got[4:] {
		if !e.ViewersImputed || e.USViewers != 4 {
			t.Fatalf("expected dataset median 4 for empty season, got %+v", e)
		}
	}
	if got[0].ViewersImputed {
		t.Fatal("observed value must not be marked imputed")
	}

	empty := analytics.Build(seasonRows(3, nil, nil), analytics.DefaultOptions())
	for _, e := range empty.Episodes() {
		if e.USViewers != 0 || !e.ViewersImputed {
			t.Fatalf("expected zero when nothing is observed, got %+v", e)
		}
	}
}

func TestBuildOrdersEpisodesWithinSeasonByRowOrder(t *testing.T) {
	rows := []normalize.Row{
		{Season: 2, EpisodeLabel: "2-first", USViewers: viewers(1)},
		{Season: 1, EpisodeLabel: "1-first", USViewers: viewers(1)},
		{Season: 2, EpisodeLabel: "2-second", USViewers: viewers(1)},
		{Season: 1, EpisodeLabel: "1-second", USViewers: viewers(1)},
		{Season: 1, EpisodeLabel: "1-third", USViewers: viewers(1)},
	}
	table := analytics.Build(rows, analytics.DefaultOptions())
	want := []struct {
		season int
		order  int
		label  string
	}{
		{1, 1, "1-first"}, {1, 2, "1-second"}, {1, 3, "1-third"},
		{2, 1, "2-first"}, {2, 2, "2-second"},
	}
	if table.Len() != len(want) {
		t.Fatalf("expected %d episodes, got %d", len(want), table.Len())
	}
	for i, w := range want {
		e := table.At(i)
		if e.Season != w.season || e.EpisodeOrder != w.order || e.EpisodeLabel != w.label {
			t.Fatalf("position %d: got season=%d order=%d label=%q, want %+v", i, e.Season, e.EpisodeOrder, e.EpisodeLabel, w)
		}
	}
	if seasons := table.Seasons(); len(seasons) != 2 || seasons[0] != 1 || seasons[1] != 2 {
		t.Fatalf("unexpected seasons %v", seasons)
	}
}

func TestBuildTopDecileIsDatasetWide(t *testing.T) {
	var rows []normalize.Row
	rows = append(rows, seasonRows(1, floats(1, 2, 3, 4, 5)...)...)
	rows = append(rows, seasonRows(2, floats(6, 7, 8, 9, 10)...)...)
	table := analytics.Build(rows, analytics.DefaultOptions())
	for _, e := range table.Episodes() {
		want := e.USViewers == 10
		if e.IsTopDecile != want {
			t.Fatalf("%.0f viewers: top decile=%v, want %v", e.USViewers, e.IsTopDecile, want)
		}
	}
}

func TestBuildMovingAverageStaysInsideSeason(t *testing.T) {
	var rows []normalize.Row
	rows = append(rows, seasonRows(1, floats(1, 2, 3, 4, 5, 6)...)...)
	rows = append(rows, seasonRows(2, floats(100, 200)...)...)
	table := analytics.Build(rows, analytics.DefaultOptions())

	want := []float64{1, 1.5, 2, 2.5, 3, 4, 100, 150}
	for i, w := range want {
		e := table.At(i)
		if e.MovingAverage5 == nil || !approx(*e.MovingAverage5, w) {
			t.Fatalf("position %d: moving average %v, want %v", i, e.MovingAverage5, w)
		}
	}
}

func TestGroupBySeasonGrowth(t *testing.T) {
	var rows []normalize.Row
	rows = append(rows, seasonRows(1, floats(1, 3)...)...)
	rows = append(rows, seasonRows(2, floats(3, 3)...)...)
	rows = append(rows, seasonRows(4, floats(0, 0)...)...)
	rows = append(rows, seasonRows(5, floats(2)...)...)
	summaries := analytics.Build(rows, analytics.DefaultOptions()).GroupBySeason()

	if len(summaries) != 4 {
		t.Fatalf("expected 4 seasons, got %d", len(summaries))
	}
	if g := summaries[0].Growth; g == nil || *g != 0 {
		t.Fatalf("first season growth should be 0, got %v", g)
	}
	if g := summaries[1].Growth; g == nil || !approx(*g, 50) {
		t.Fatalf("expected 50%% growth, got %v", g)
	}
	if g := summaries[2].Growth; g == nil || !approx(*g, -100) {
		t.Fatalf("expected -100%% growth, got %v", g)
	}
	if summaries[3].Growth != nil {
		t.Fatalf("growth after a zero mean should be undefined, got %v", *summaries[3].Growth)
	}
}

func TestGroupBySeasonAggregates(t *testing.T) {
	runtime := func(v float64) *float64 { return &v }
	rows := []normalize.Row{
		{Season: 1, EpisodeLabel: "1a", Title: "A", USViewers: viewers(2), RunningTimeMinutes: runtime(11)},
		{Season: 1, EpisodeLabel: "1b", Title: "B", USViewers: viewers(6), RunningTimeMinutes: runtime(12)},
		{Season: 1, EpisodeLabel: "2a", Title: "C", USViewers: viewers(4)},
	}
	s := analytics.Build(rows, analytics.DefaultOptions()).GroupBySeason()[0]
	if s.Episodes != 3 || s.MeanViewers != 4 || s.MedianViewers != 4 || s.MinViewers != 2 || s.MaxViewers != 6 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.TopEpisode.Title != "B" {
		t.Fatalf("expected top episode B, got %q", s.TopEpisode.Title)
	}
	if s.MeanRunningTime == nil || *s.MeanRunningTime != 11.5 {
		t.Fatalf("unexpected mean running time %v", s.MeanRunningTime)
	}
}

func fixtureTable() *analytics.Table {
	day := func(y int, m time.Month, d int) *time.Time {
		ts := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	rows := []normalize.Row{
		{Season: 1, Title: "Help Wanted", USViewers: viewers(1), Airdate: day(1999, time.May, 1),
			Writers: []string{"Stephen Hillenburg", "Derek Drymon"}, Characters: []string{"SpongeBob", "Squidward"}},
		{Season: 1, Title: "Reef Blower", USViewers: viewers(1), Airdate: day(1999, time.May, 1),
			Writers: []string{"Stephen Hillenburg"}, Characters: []string{"SpongeBob"}},
		{Season: 1, Title: "Tea at the Treedome", USViewers: viewers(1), Airdate: day(1999, time.May, 8),
			Writers: []string{"Peter Burns"}, Characters: []string{"SpongeBob", "Sandy"}},
		{Season: 1, Title: "Bubblestand", USViewers: viewers(1),
			Writers: []string{"Ennio Torresan"}, Characters: []string{"Patrick"}},
		{Season: 1, Title: "Ripped Pants", USViewers: viewers(10), Airdate: day(1999, time.July, 31),
			Writers: []string{"Peter Burns"}, Characters: []string{"Sandy"}},
		{Season: 2, Title: "Your Shoe's Untied", USViewers: viewers(3), Airdate: day(2000, time.October, 26),
			Writers: []string{"Mr. Lawrence"}, Characters: []string{"SpongeBob", "Patrick"}},
	}
	return analytics.Build(rows, analytics.DefaultOptions())
}

func TestFiltersShareDerivedValues(t *testing.T) {
	table := fixtureTable()

	if got := table.FilterSeasons(2).Len(); got != 1 {
		t.Fatalf("expected one season 2 episode, got %d", got)
	}
	if got := table.FilterSeasons().Len(); got != table.Len() {
		t.Fatalf("expected no-arg season filter to keep everything, got %d", got)
	}

	burns := table.FilterWriter("PETER BURNS")
	if burns.Len() != 2 {
		t.Fatalf("expected two Peter Burns episodes, got %d", burns.Len())
	}
	// The outlier keeps its season-wide flag inside a narrower view.
	if !burns.At(1).IsAnomaly {
		t.Fatal("filtered view must keep anomaly flag computed on the full table")
	}
	if got := burns.FilterSeasons(1).Anomalies().Len(); got != 1 {
		t.Fatalf("expected chained filters to find one anomaly, got %d", got)
	}

	if got := table.FilterCharacter("sandy").Len(); got != 2 {
		t.Fatalf("expected two Sandy episodes, got %d", got)
	}

	may := table.FilterDateRange(time.Date(1999, time.May, 1, 0, 0, 0, 0, time.UTC), time.Date(1999, time.May, 8, 23, 0, 0, 0, time.UTC))
	if may.Len() != 3 {
		t.Fatalf("expected inclusive range to match three episodes, got %d", may.Len())
	}
	open := table.FilterDateRange(time.Time{}, time.Time{})
	if open.Len() != 5 {
		t.Fatalf("expected undated episode excluded, got %d", open.Len())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	table := fixtureTable()
	e := table.At(0)
	e.Writers[0] = "someone else"
	*e.Airdate = time.Time{}
	if table.At(0).Writers[0] != "Stephen Hillenburg" || table.At(0).Airdate.IsZero() {
		t.Fatal("mutating a returned episode changed the table")
	}
}

func TestOverviewAndTopNames(t *testing.T) {
	table := fixtureTable()
	ov := table.Overview()
	if ov.Seasons != 2 || ov.Episodes != 6 || ov.MaxSeasonEpisodes != 5 || ov.Anomalies != 1 {
		t.Fatalf("unexpected overview %+v", ov)
	}
	if ov.TopSeason != 2 || ov.TopSeasonMean != 3 {
		t.Fatalf("expected season 2 to lead, got %+v", ov)
	}
	if !approx(ov.MeanViewers, 17.0/6) {
		t.Fatalf("unexpected mean viewers %v", ov.MeanViewers)
	}

	chars := table.TopCharacters(3)
	want := []analytics.Count{{Name: "SpongeBob", Count: 4}, {Name: "Patrick", Count: 2}, {Name: "Sandy", Count: 2}}
	if len(chars) != len(want) {
		t.Fatalf("unexpected characters %v", chars)
	}
	for i := range want {
		if chars[i] != want[i] {
			t.Fatalf("position %d: got %+v want %+v", i, chars[i], want[i])
		}
	}
	writers := table.TopWriters(0)
	if len(writers) != 5 || writers[0].Name != "Peter Burns" || writers[1].Name != "Stephen Hillenburg" {
		t.Fatalf("unexpected writers %v", writers)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	table := analytics.Build(nil, analytics.Options{})
	if table.Len() != 0 || len(table.Episodes()) != 0 || len(table.GroupBySeason()) != 0 {
		t.Fatal("expected empty table")
	}
	if table.Overview() != (analytics.Overview{}) {
		t.Fatalf("expected zero overview, got %+v", table.Overview())
	}
	if table.Options() != analytics.DefaultOptions() {
		t.Fatalf("expected defaults, got %+v", table.Options())
	}
}
