// Package transfer reads player moves between teams from the transfers portal.
package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const (
	// DefaultPath is the Age of Empires transfers portal
	DefaultPath = "/ageofempires/Portal:Transfers"

	tableClass   = "mainpage-transfer"
	rowClass     = "divRow"
	dateClass    = "Date"
	nameClass    = "Name"
	playerClass  = "block-player"
	oldTeamClass = "OldTeam"
	newTeamClass = "NewTeam"
	refClass     = "Ref"
)

// Player is one player moved by a transfer
type Player struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Link string `json:"link,omitempty"` // empty when the player has no page
}

// Transfer is one row of the transfers portal. Old is empty for players
// joining from no team and New is empty for players leaving a team.
type Transfer struct {
	Date    time.Time `json:"date"`
	Players []Player  `json:"players"`
	Old     string    `json:"old,omitempty"`
	New     string    `json:"new,omitempty"`
	Ref     string    `json:"ref,omitempty"`
}

// List is a list of transfers in portal order, most recent first
type List []*Transfer

// Recent returns the transfers dated on or after since, keeping their order.
// Transfers without a readable date are left out.
func (l List) Recent(since time.Time) List {
	recent := make(List, 0)
	for _, t := range l {
		if t.Date.IsZero() || t.Date.Before(since) {
			continue
		}
		recent = append(recent, t)
	}
	return recent
}

// Transfers fetches a transfers page and parses every transfer row. Rows
// without any player are skipped.
func Transfers(ctx context.Context, fetcher tournament.Fetcher, path string) (List, error) {
	doc, err := fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching transfers: %w", err)
	}

	transfers := make(List, 0)
	dom.FindAllByClass(doc.Selection, tableClass).Each(func(_ int, table *goquery.Selection) {
		dom.FindAllByClass(table, rowClass).Each(func(i int, row *goquery.Selection) {
			t, ok := fromRow(row)
			if !ok {
				logger.Debug("Skipping transfer row", logger.Fields{"row": i})
				return
			}
			transfers = append(transfers, t)
		})
	})

	logger.Info("Loaded transfers", logger.Fields{
		"path":      path,
		"transfers": len(transfers),
	})
	return transfers, nil
}

func fromRow(row *goquery.Selection) (*Transfer, bool) {
	players := rowPlayers(row)
	if len(players) == 0 {
		return nil, false
	}

	t := &Transfer{Players: players}
	if cell, ok := dom.Lookup(row, dateClass); ok {
		t.Date = tournament.ParseDate(dom.Text(cell))
	}
	if cell, ok := dom.Lookup(row, oldTeamClass); ok {
		t.Old = teamName(cell)
	}
	if cell, ok := dom.Lookup(row, newTeamClass); ok {
		t.New = teamName(cell)
	}
	if cell, ok := dom.Lookup(row, refClass); ok {
		t.Ref = externalLink(cell)
	}
	return t, true
}

// rowPlayers reads the players of the name cell. Each player is wrapped in a
// block next to its flag; cells of older rows hold bare links.
func rowPlayers(row *goquery.Selection) []Player {
	cell, ok := dom.Lookup(row, nameClass)
	if !ok {
		return nil
	}

	blocks := dom.FindAllByClass(cell, playerClass)
	if blocks.Length() == 0 {
		blocks = cell.Find("a[href]")
	}

	players := make([]Player, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		anchor := block
		if !block.Is("a") {
			anchor = block.Find("a[href]").Last()
		}
		name := dom.Text(anchor)
		if name == "" {
			return
		}
		id := identity.Resolve(anchor)
		players = append(players, Player{Name: name, Key: id.Key, Link: id.Link})
	})
	return players
}

// teamName returns the full team name of a team cell. Team templates render
// a short name as text and the full name as link title.
func teamName(cell *goquery.Selection) string {
	anchor := cell.Find("a[title]").First()
	if anchor.Length() == 0 {
		return ""
	}
	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	title = strings.TrimSuffix(title, " (page does not exist)")
	if title == "" {
		return dom.Text(anchor)
	}
	return title
}

func externalLink(cell *goquery.Selection) string {
	href := cell.Find("a[href]").First().AttrOr("href", "")
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return ""
	}
	return href
}
