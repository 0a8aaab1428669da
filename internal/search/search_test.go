package search_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"linkvault/internal/model"
	"linkvault/internal/search"
)

func testLinks() []model.Link {
	return []model.Link{
		{ID: "l1", Title: "Foo Bar", URL: "https://x.test"},
		{ID: "l2", Title: "Baz", URL: "https://foo.test"},
		{ID: "l3", Title: "Quux", URL: "https://quux.test", Description: "all about foo"},
		{ID: "l4", Title: "Notes only", URL: "https://n.test", Notes: "remember FOO"},
		{ID: "l5", Title: "Unrelated", URL: "https://other.test"},
	}
}

func TestFilter_MatchesAnyField(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"title match", "bar", []string{"l1"}},
		{"url match counts too", "foo", []string{"l1", "l2", "l3", "l4"}},
		{"description match", "about", []string{"l3"}},
		{"notes match is case-insensitive", "remember", []string{"l4"}},
		{"no match", "zzz", []string{}},
		{"empty query matches all", "", []string{"l1", "l2", "l3", "l4", "l5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.Filter(testLinks(), tt.query)

			gotIDs := []string{}
			for _, l := range got {
				gotIDs = append(gotIDs, l.ID)
			}
			assert.DeepEqual(t, gotIDs, tt.wantIDs)
		})
	}
}

func TestRank_SortsByScore(t *testing.T) {
	links := []model.Link{
		{ID: "l1", Title: "TanStack Router"},
		{ID: "l2", Title: "React Router Docs"},
		{ID: "l3", Title: "Hacker News"},
	}

	results := search.Rank(links, "router")

	assert.Assert(t, len(results) >= 2, "expected at least two matches")
	for _, r := range results {
		assert.Assert(t, r.Link.ID != "l3", "non-matching link must not appear")
	}
	// Best score first.
	for i := 1; i < len(results); i++ {
		assert.Assert(t, results[i-1].Score >= results[i].Score)
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	results := search.Rank(testLinks(), "")
	assert.Assert(t, results == nil)
}
