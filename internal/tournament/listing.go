package tournament

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
)

// Column positions inside a portal divRow
const (
	listingHeader = iota
	listingDates
	listingPrize
	listingParticipants
	_ // location
	listingFirst
	listingSecond
)

// FromListingRow builds a lightweight tournament from a portal divRow. Only
// the header (name and url) is required; every other column is optional.
func FromListingRow(row *goquery.Selection) (*Tournament, error) {
	cells := row.Find("div")
	if cells.Length() == 0 {
		return nil, fmt.Errorf("listing row has no cells")
	}

	header := cells.Eq(listingHeader)
	title := header.Find("b").First()
	href, ok := title.Find("a").First().Attr("href")
	if !ok {
		return nil, fmt.Errorf("listing row has no tournament link")
	}

	t := New(href)
	t.Name = dom.Text(title)
	t.Tier = dom.Text(header.Find("a").First())
	if game, ok := header.Find("span").First().Find("a").First().Attr("title"); ok {
		t.Game = strings.TrimSpace(game)
	}

	if cells.Length() > listingDates {
		t.Start, t.End = parseDateRange(cells.Eq(listingDates).Text())
	}
	if cells.Length() > listingPrize {
		t.Prize = dom.Text(cells.Eq(listingPrize))
	}
	if cells.Length() > listingParticipants {
		if n, ok := ParticipantCount(cells.Eq(listingParticipants).Text()); ok {
			t.ParticipantCount = n
		}
	}
	if cells.Length() > listingFirst {
		t.loadListingFirst(cells.Eq(listingFirst))
	}
	if t.FirstPlace != "" && cells.Length() > listingSecond {
		t.loadListingSecond(cells.Eq(listingSecond))
	}

	return t, nil
}

func (t *Tournament) loadListingFirst(cell *goquery.Selection) {
	if dom.Text(cell) == "Cancelled" {
		t.Cancelled = true
		return
	}
	span := cell.Find("span").Last()
	name := dom.Text(span)
	if name == "" || name == "TBD" {
		return
	}
	t.FirstPlace = name
	t.FirstPlaceLink = identity.ValidLink(span.Find("a").First())
}

func (t *Tournament) loadListingSecond(cell *goquery.Selection) {
	if dom.Text(cell) == "Cancelled" {
		t.Cancelled = true
		return
	}
	name := dom.Text(cell.Find("span").Last())
	if name != "" && name != "TBD" {
		t.SecondPlace = name
	}
}
