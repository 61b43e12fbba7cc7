package normalize

import (
	"regexp"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

// dateLayouts are tried in order after any embedded ISO date.
var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006-1-2",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Date parses an air date as a calendar date at UTC midnight.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(stripCitations(raw))
	if IsMissing(s) {
		return time.Time{}, false
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t, true
		}
	}
	s = strings.Join(strings.Fields(stripParenthetical(s)), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, mo, d := t.Date()
			return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func stripParenthetical(s string) string {
	if idx := strings.Index(s, "("); idx > 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
