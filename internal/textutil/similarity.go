package textutil

import (
	"cmp"
	"slices"
)

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		dot += count * b.grams[gram]
	}
	return dot / (a.norm * b.norm)
}

// Match is a candidate scored against a query.
type Match struct {
	Name  string
	Score float64
}

// Suggest returns up to limit candidates whose similarity to query is at
// least minScore, best first. Ties are ordered by name.
func Suggest(query string, candidates []string, minScore float64, limit int) []Match {
	q := NewFingerprint(query)
	if q == nil {
		return nil
	}
	var out []Match
	seen := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if score := CosineSimilarity(q, NewFingerprint(name)); score >= minScore && score > 0 {
			out = append(out, Match{Name: name, Score: score})
		}
	}
	slices.SortFunc(out, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
