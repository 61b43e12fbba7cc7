package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	clockPattern   = regexp.MustCompile(`^(\d+):([0-5]?\d)(?::([0-5]?\d))?(?:\s*\pL[\pL. ]*)?$`)
	goLiteral      = regexp.MustCompile(`(?i)\b0[xob][0-9a-f]|\d_\d`)
	integerPattern = regexp.MustCompile(`\d+`)
	secondsMarker  = regexp.MustCompile(`(?i)\d\s*(?:s|secs?|seconds?)\b`)
	minutesMarker  = regexp.MustCompile(`(?i)\d\s*(?:m|mins?|minutes?)\b`)
)

// Duration parses a running time into minutes.
//
// Accepted forms, in order: a plain decimal ("11.5"), a clock ("11:30",
// "1:02:30" or "11:30 minutes"), and free text where the first integer is minutes and a second
// integer counts as seconds when a seconds marker is present
// ("11 minutes 30 seconds"). A lone integer marked only as seconds is
// converted from seconds.
func Duration(raw string) (float64, bool) {
	s := strings.TrimSpace(stripCitations(raw))
	if IsMissing(s) {
		return 0, false
	}
	if v, ok := Number(s); ok {
		if v < 0 {
			return 0, false
		}
		return v, true
	}
	if goLiteral.MatchString(s) {
		return 0, false
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if m[3] == "" {
			return float64(a) + float64(b)/60, true
		}
		c, _ := strconv.Atoi(m[3])
		return float64(a)*60 + float64(b) + float64(c)/60, true
	}

	ints := integerPattern.FindAllString(s, 2)
	if len(ints) == 0 {
		return 0, false
	}
	first, err := strconv.Atoi(ints[0])
	if err != nil {
		return 0, false
	}
	hasSeconds := secondsMarker.MatchString(s)
	if len(ints) == 1 {
		if hasSeconds && !minutesMarker.MatchString(s) {
			return float64(first) / 60, true
		}
		return float64(first), true
	}
	minutes := float64(first)
	if hasSeconds {
		second, err := strconv.Atoi(ints[1])
		if err == nil {
			minutes += float64(second) / 60
		}
	}
	return minutes, true
}
