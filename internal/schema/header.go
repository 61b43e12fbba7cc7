package schema

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// glyphReplacer collapses mis-decoded glyphs whose intended form is known.
var glyphReplacer = strings.NewReplacer(
	"\u00ef\u00bb\u00bf", "",
	"\ufeff", "",
	"\u00e2\u201e\u2013", "No.",
	"\u00e2\u20ac\u201c", "-",
	"\u00e2\u20ac\u201d", "-",
	"\u00e2\u20ac\u2122", "'",
	"\u00c2\u00a0", " ",
	"\u2116", "No.",
)

var dashReplacer = strings.NewReplacer(
	"\u2010", "-",
	"\u2011", "-",
	"\u2012", "-",
	"\u2013", "-",
	"\u2014", "-",
	"\u2015", "-",
	"\u2212", "-",
	"\ufe58", "-",
)

// NormalizeHeader cleans a raw header so it can be classified.
func NormalizeHeader(raw string) string {
	s := glyphReplacer.Replace(raw)
	s = repairMojibake(s)
	s = glyphReplacer.Replace(s)
	s = norm.NFKC.String(s)
	s = dashReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// repairMojibake reverses UTF-8 text that was decoded as Windows-1252. The
// repair is kept only when re-encoding succeeds and yields valid UTF-8.
func repairMojibake(s string) string {
	if isASCII(s) {
		return s
	}
	encoded, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || encoded == s || !utf8.ValidString(encoded) {
		return s
	}
	return encoded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
