package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	citationPattern = regexp.MustCompile(`(?i)\[\s*(?:\d+|[a-z]|note\s*\d+|nb\s*\d+|citation needed)\s*\]`)
	groupedPattern  = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalPattern  = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)
)

var missingTokens = tokenSet(
	"", "nan", "none", "null", "n/a", "na", "<na>", "tba", "tbd", "unknown",
	"-", "\u2013", "\u2014", "\u2212",
)

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// IsMissing reports whether a cell carries no value.
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(stripCitations(raw)))]
	return ok
}

func stripCitations(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	return citationPattern.ReplaceAllString(s, "")
}

// Number parses a plain decimal cell. Citation markers are ignored; blank
// and placeholder cells, Go literal forms (hex, underscores), NaN and
// infinities are missing.
func Number(raw string) (float64, bool) {
	s := strings.TrimSpace(stripCitations(raw))
	if _, missing := missingTokens[strings.ToLower(s)]; missing {
		return 0, false
	}
	if groupedPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Season parses a season number. Non-integral values are missing.
func Season(raw string) (int, bool) {
	v, ok := Number(raw)
	if !ok || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
