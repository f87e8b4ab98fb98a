package catalog

import (
	"sort"
	"strings"
)

// DefaultSuggestLimit caps Suggest results when no limit is given.
const DefaultSuggestLimit = 10

// fuzzyMinScore is the similarity floor for typo-tolerant fallback matches.
const fuzzyMinScore = 70

// Suggestion is a ranked search match.
type Suggestion struct {
	Item  Item `json:"item"`
	Score int  `json:"score"`
}

// Suggest returns items whose name contains query case-insensitively,
// excluding an exact match, best first. When nothing contains the query,
// names within a small edit distance are suggested instead.
func (c *Catalog) Suggest(query string, limit int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	items := c.Items()
	results := make([]rankedSuggestion, 0)
	for i, item := range items {
		name := strings.ToLower(item.Name)
		if name == q || !strings.Contains(name, q) {
			continue
		}
		results = append(results, rankedSuggestion{Suggestion{item, score(q, name)}, i})
	}

	if len(results) == 0 {
		for i, item := range items {
			name := strings.ToLower(item.Name)
			if name == q {
				continue
			}
			if s := score(q, name); s >= fuzzyMinScore {
				results = append(results, rankedSuggestion{Suggestion{item, s}, i})
			}
		}
	}

	// Score descending, then catalog order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].index < results[j].index
	})

	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]Suggestion, len(results))
	for i, r := range results {
		out[i] = r.Suggestion
	}
	return out
}

type rankedSuggestion struct {
	Suggestion
	index int
}

// score rates the similarity of query and target (0-100).
func score(query, target string) int {
	if query == target {
		return 100
	}
	if len(query) == 0 || len(target) == 0 {
		return 0
	}
	if strings.HasPrefix(target, query) {
		return 85 + len(query)*10/len(target)
	}
	if strings.Contains(target, query) {
		return 70 + len(query)*10/len(target)
	}

	distance := levenshtein(query, target)
	return 100 - distance*100/max(len(query), len(target))
}

// levenshtein returns the single-character edit distance between a and b.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
