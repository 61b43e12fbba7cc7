package textutil

import (
	"math"
	"strings"
	"unicode"
)

// Fingerprint is a trigram frequency vector for one name.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. It returns nil when text
// has no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	grams := Trigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

// Trigrams lowercases text, keeps letters and digits, and returns the
// overlapping three-rune windows of each word padded with spaces.
func Trigrams(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var grams []string
	for _, w := range words {
		rs := []rune(" " + w + " ")
		for i := 0; i+3 <= len(rs); i++ {
			grams = append(grams, string(rs[i:i+3]))
		}
	}
	return grams
}

// Size returns the number of distinct trigrams.
func (f *Fingerprint) Size() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
