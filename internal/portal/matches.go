package portal

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const (
	// MatchesPath lists recent and upcoming matches
	MatchesPath = "/ageofempires/Liquipedia:Matches"

	matchTableClass = "infobox_matches_content"
)

// MatchResults fetches a matches listing and returns one match per match
// table, in page order
func MatchResults(ctx context.Context, fetcher tournament.Fetcher, path string) ([]*tournament.Match, error) {
	doc, err := fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching matches: %w", err)
	}

	matches := make([]*tournament.Match, 0)
	dom.FindAllByClass(doc.Selection, matchTableClass).Each(func(_ int, table *goquery.Selection) {
		if m, ok := tournament.ParseMatchTable(table); ok {
			matches = append(matches, m)
		}
	})
	return matches, nil
}
