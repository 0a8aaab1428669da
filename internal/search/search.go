package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"linkvault/internal/model"
)

// Filter returns links whose title, URL, description or notes contain
// query case-insensitively. An empty query matches everything.
func Filter(links []model.Link, query string) []model.Link {
	if query == "" {
		return links
	}

	q := strings.ToLower(query)
	result := []model.Link{}
	for _, l := range links {
		if containsFold(l.Title, q) ||
			containsFold(l.URL, q) ||
			containsFold(l.Description, q) ||
			containsFold(l.Notes, q) {
			result = append(result, l)
		}
	}
	return result
}

// containsFold reports whether s contains the already-lowercased substr.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// Result represents a fuzzy search match.
type Result struct {
	Link           model.Link
	MatchedIndexes []int
	Score          int
}

// linkTitles implements fuzzy.Source for a link slice.
type linkTitles []model.Link

func (lt linkTitles) String(i int) string {
	return lt[i].Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// Rank searches links by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Rank(links []model.Link, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, linkTitles(links))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Link:           links[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
