// Package player reads the tournament history of a player profile.
package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/provider"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const resultsTableClass = "wikitable"

// Columns of a results row. Rows with any other cell count are headers or
// year separators.
const (
	colDate = iota
	colPlace
	colTier
	colType
	colGame
	_ // tournament icon
	colTournament
	_ // team
	_ // result
	_ // opponent
	colPrize
	resultColumns
)

// Results returns the tournaments listed on a player's results page, most
// recent first as the wiki orders them. Profiles that do not exist (red
// links) have no results. Players without a separate results subpage list
// them on the profile itself.
func Results(ctx context.Context, fetcher tournament.Fetcher, playerURL string) ([]*tournament.Tournament, error) {
	results := make([]*tournament.Tournament, 0)
	if playerURL == "" || identity.IsRedlink(playerURL) {
		return results, nil
	}

	doc, err := fetcher.Fetch(ctx, playerURL+"/Results")
	if provider.IsNotFound(err) {
		logger.Debug("No results subpage, using profile", logger.Fields{"player": playerURL})
		doc, err = fetcher.Fetch(ctx, playerURL)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching results of %s: %w", playerURL, err)
	}

	table, ok := dom.Lookup(doc.Selection, resultsTableClass)
	if !ok {
		return results, nil
	}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() != resultColumns {
			return
		}
		if t, ok := fromResultRow(cells); ok {
			results = append(results, t)
		}
	})
	return results, nil
}

func fromResultRow(cells *goquery.Selection) (*tournament.Tournament, bool) {
	link := cells.Eq(colTournament).Find("a[href]").Last()
	href, ok := link.Attr("href")
	if !ok {
		return nil, false
	}

	t := tournament.New(href)
	t.Name = dom.Text(link)
	t.End = tournament.ParseDate(dom.Text(cells.Eq(colDate)))
	t.Start = t.End
	t.PlayerPlace = normalizePlace(dom.Text(cells.Eq(colPlace)))
	t.Tier = dom.Text(cells.Eq(colTier))
	t.Team = strings.EqualFold(dom.Text(cells.Eq(colType)), "Team")
	t.PlayerPrize = dom.Text(cells.Eq(colPrize))

	game := cells.Eq(colGame)
	if title, ok := game.Find("[title]").First().Attr("title"); ok {
		t.Game = strings.TrimSpace(title)
	} else {
		t.Game = dom.Text(game)
	}
	return t, true
}

func normalizePlace(text string) string {
	return strings.ReplaceAll(text, " ", "")
}
