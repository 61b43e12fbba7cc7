package normalize_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"episodestats/internal/decode"
	"episodestats/internal/normalize"
	"episodestats/internal/schema"
	"episodestats/internal/testsupport"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3.7", 3.7, true},
		{" 2.10 ", 2.1, true},
		{"4.25[12]", 4.25, true},
		{"1,234.5", 1234.5, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"—", 0, false},
		{"three", 0, false},
		{"1.2e1", 12, true},
		{".5", 0.5, true},
		{"0x10p0", 0, false},
		{"1_000", 0, false},
		{"0b101", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := normalize.Number(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-12) {
			t.Errorf("Number(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSeasonRequiresIntegralValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"2.0", 2, true},
		{" 13 ", 13, true},
		{"1.5", 0, false},
		{"?", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := normalize.Season(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Season(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"python literal", `['SpongeBob', "Patrick"]`, []string{"SpongeBob", "Patrick"}},
		{"literal with escapes", `['Mr. Krabs\' Daughter', "A \"B\""]`, []string{"Mr. Krabs' Daughter", `A "B"`}},
		{"literal drops none", `['SpongeBob', None, nan, '']`, []string{"SpongeBob"}},
		{"literal keeps duplicates", `['Patrick', 'Patrick']`, []string{"Patrick", "Patrick"}},
		{"empty literal", `[]`, []string{}},
		{"bare names fall back", `[SpongeBob, Squidward]`, []string{"SpongeBob", "Squidward"}},
		{"comma separated", "SpongeBob, Squidward", []string{"SpongeBob", "Squidward"}},
		{"semicolon separated", "Peter Burns; Paul Tibbitt", []string{"Peter Burns", "Paul Tibbitt"}},
		{"pipe separated", "SpongeBob|Sandy", []string{"SpongeBob", "Sandy"}},
		{"quoted single", `"Patrick"`, []string{"Patrick"}},
		{"unterminated literal", `['SpongeBob', 'Pat`, []string{"SpongeBob", "Pat"}},
		{"missing", "None", []string{}},
		{"nan cell", "nan", []string{}},
		{"placeholder cell kept like literal", "TBA", []string{"TBA"}},
		{"placeholder literal", `['TBA']`, []string{"TBA"}},
		{"unknown cell", "Unknown", []string{"Unknown"}},
		{"blank", "  ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.List(tt.in)
			if got == nil {
				t.Fatalf("List(%q) returned nil", tt.in)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("List(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"11 minutes", 11, true},
		{"11 min", 11, true},
		{"11 minutes 30 seconds", 11.5, true},
		{"11 min 30 sec", 11.5, true},
		{"22", 22, true},
		{"11.5", 11.5, true},
		{"11:30", 11.5, true},
		{"1:02:30", 62.5, true},
		{"45 seconds", 0.75, true},
		{"11 minutes (approx.)", 11, true},
		{"11:30 minutes", 11.5, true},
		{"1:02:30 hrs.", 62.5, true},
		{"0x1Ap0", 0, false},
		{"1_1 minutes", 0, false},
		{"", 0, false},
		{"unknown", 0, false},
		{"long", 0, false},
	}
	for _, tt := range tests {
		got, ok := normalize.Duration(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-9) {
			t.Errorf("Duration(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDate(t *testing.T) {
	want := time.Date(1999, time.May, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"May 1, 1999",
		"May 1, 1999 (1999-05-01)",
		"1999-05-01",
		"May 1, 1999[3]",
		"1 May 1999",
		"05/01/1999",
		"  May   1,  1999 ",
	} {
		got, ok := normalize.Date(in)
		if !ok || !got.Equal(want) {
			t.Errorf("Date(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "not a date", "TBA"} {
		if _, ok := normalize.Date(in); ok {
			t.Errorf("Date(%q) should be missing", in)
		}
	}
}

func TestRowsDropsUnusableSeasons(t *testing.T) {
	fixture := testsupport.EpisodeRows()
	mapping, err := schema.Resolve(fixture[0])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	records := make([]decode.Record, 0, len(fixture)-1)
	for i, fields := range fixture[1:] {
		records = append(records, decode.Record{Line: i + 2, Fields: fields})
	}

	rows, stats := normalize.Rows(records, mapping)
	if len(rows) != 6 || stats.Kept != 6 || stats.Dropped != 1 || stats.Input != 7 {
		t.Fatalf("unexpected counts rows=%d stats=%+v", len(rows), stats)
	}
	if stats.MissingViewers != 1 {
		t.Fatalf("expected one missing viewer count, got %d", stats.MissingViewers)
	}
	if stats.Unparsed[schema.Season] != 1 || stats.Unparsed[schema.Airdate] != 1 {
		t.Fatalf("unexpected unparsed counts %v", stats.Unparsed)
	}

	first := rows[0]
	if first.Season != 1 || first.EpisodeLabel != "1a" || first.Title != "Help Wanted" || first.Line != 2 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.USViewers == nil || *first.USViewers != 3.7 {
		t.Fatalf("unexpected viewers %v", first.USViewers)
	}
	if first.RunningTimeMinutes == nil || *first.RunningTimeMinutes != 11 {
		t.Fatalf("unexpected running time %v", first.RunningTimeMinutes)
	}
	if !reflect.DeepEqual(first.Writers, []string{"Stephen Hillenburg", "Derek Drymon"}) {
		t.Fatalf("unexpected writers %q", first.Writers)
	}
	if len(first.Guests) != 0 || first.Guests == nil {
		t.Fatalf("expected empty non-nil guests, got %#v", first.Guests)
	}
	if rows[2].USViewers != nil {
		t.Fatalf("expected missing viewers on third row, got %v", *rows[2].USViewers)
	}
	if rows[2].RunningTimeMinutes == nil || *rows[2].RunningTimeMinutes != 11.5 {
		t.Fatalf("unexpected running time %v", rows[2].RunningTimeMinutes)
	}
	if rows[5].Airdate != nil {
		t.Fatalf("expected missing air date, got %v", rows[5].Airdate)
	}
}

func TestRowsPanicsOnNilMapping(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	normalize.Rows(nil, nil)
}
