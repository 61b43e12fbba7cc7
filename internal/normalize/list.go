package normalize

import (
	"errors"
	"strconv"
	"strings"
)

var errNotLiteral = errors.New("not a list literal")

// List parses a multi-valued cell. A bracketed literal such as
// ['A', "B"] is parsed element by element; anything else is split on
// comma, semicolon and pipe. Order and duplicates are preserved. The result
// is never nil.
func List(raw string) []string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(strings.TrimSpace(stripCitations(s))) {
	case "", "nan", "none":
		return []string{}
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if items, err := parseLiteral(s[1 : len(s)-1]); err == nil {
			return keepValues(items, false)
		}
	}
	return keepValues(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	}), true)
}

func keepValues(items []string, trimPunct bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if trimPunct {
			item = strings.TrimSpace(strings.Trim(item, `'"[] `))
		}
		switch strings.ToLower(item) {
		case "", "nan", "none":
			continue
		}
		out = append(out, item)
	}
	return out
}

// parseLiteral reads the body of a bracketed list of quoted strings. Bare
// elements are accepted only for None, nan and numbers.
func parseLiteral(body string) ([]string, error) {
	var items []string
	rs := []rune(body)
	i := 0
	skipSpace := func() {
		for i < len(rs) && (rs[i] == ' ' || rs[i] == '\t' || rs[i] == '\n' || rs[i] == '\r') {
			i++
		}
	}
	for {
		skipSpace()
		if i >= len(rs) {
			return items, nil
		}
		var item string
		if q := rs[i]; q == '\'' || q == '"' {
			i++
			var b strings.Builder
			closed := false
			for i < len(rs) {
				r := rs[i]
				if r == '\\' && i+1 < len(rs) {
					b.WriteRune(unescape(rs[i+1]))
					i += 2
					continue
				}
				i++
				if r == q {
					closed = true
					break
				}
				b.WriteRune(r)
			}
			if !closed {
				return nil, errNotLiteral
			}
			item = b.String()
		} else {
			start := i
			for i < len(rs) && rs[i] != ',' {
				i++
			}
			item = strings.TrimSpace(string(rs[start:i]))
			if !bareLiteral(item) {
				return nil, errNotLiteral
			}
		}
		items = append(items, item)
		skipSpace()
		if i >= len(rs) {
			return items, nil
		}
		if rs[i] != ',' {
			return nil, errNotLiteral
		}
		i++
	}
}

func bareLiteral(item string) bool {
	switch item {
	case "None", "nan", "NaN":
		return true
	}
	_, err := strconv.ParseFloat(item, 64)
	return err == nil
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}
