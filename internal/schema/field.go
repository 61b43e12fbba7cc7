package schema

import (
	"slices"
	"strings"
	"unicode"
)

// Field is a canonical semantic column.
type Field string

const (
	Season         Field = "Season"
	EpisodeRaw     Field = "EpisodeRaw"
	Title          Field = "Title"
	USViewers      Field = "USViewers"
	RunningTimeRaw Field = "RunningTimeRaw"
	Airdate        Field = "Airdate"
	Writers        Field = "Writers"
	Characters     Field = "Characters"
	Guests         Field = "Guests"
)

// MandatoryFields must each be matched by a header for a load to proceed.
var MandatoryFields = []Field{Season, EpisodeRaw, USViewers}

// rule classifies a normalized header by case-insensitive substrings, or by
// whole words for short tokens that hide inside other words.
type rule struct {
	field    Field
	contains []string
	words    []string
}

func (r rule) matches(lowered string, words []string) bool {
	for _, needle := range r.contains {
		if strings.Contains(lowered, needle) {
			return true
		}
	}
	for _, w := range r.words {
		if slices.Contains(words, w) {
			return true
		}
	}
	return false
}

// rules is evaluated top to bottom; a header belongs to the first rule it
// matches. Season comes before episode so "No. in season" is a season column.
var rules = []rule{
	{field: Season, contains: []string{"season", "series no"}},
	{field: EpisodeRaw, contains: []string{"episode", "ep no", "ep #"}},
	{field: USViewers, contains: []string{"viewer", "audience"}},
	{field: Characters, contains: []string{"character", "starring"}, words: []string{"main"}},
	{field: Writers, contains: []string{"writer", "written", "screenplay"}},
	{field: Guests, contains: []string{"guest"}},
	{field: RunningTimeRaw, contains: []string{"running time", "runtime", "run time", "duration", "length"}},
	{field: Title, contains: []string{"title"}},
	{field: Airdate, contains: []string{"air date", "airdate", "aired", "release", "date"}},
}

// Classify returns the canonical field for a normalized header.
func Classify(normalized string) (Field, bool) {
	lowered := strings.ToLower(normalized)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, r := range rules {
		if r.matches(lowered, words) {
			return r.field, true
		}
	}
	return "", false
}
