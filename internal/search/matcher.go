package search

import "github.com/sahilm/fuzzy"

// Matcher filters candidates by query, keeping their original order
type Matcher interface {
	Match(query string, candidates []string) []string
}

// FuzzyMatcher keeps every candidate the query is a case-insensitive
// subsequence of. Results are not ranked.
type FuzzyMatcher struct{}

// Match implements Matcher
func (FuzzyMatcher) Match(query string, candidates []string) []string {
	matches := fuzzy.FindNoSort(query, candidates)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.Index])
	}
	return out
}
