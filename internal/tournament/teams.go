package tournament

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
)

const teamCardClass = "teamcard"

// loadTeams reads every team card below main. Cards captioned TBD are
// placeholders and skipped; a later card with the same name replaces an
// earlier one.
func (t *Tournament) loadTeams(main *goquery.Selection) {
	dom.FindAllByClass(main, teamCardClass).Each(func(_ int, card *goquery.Selection) {
		caption := card.Find("center a").First()
		if caption.Length() == 0 {
			caption = card.Find("a").First()
		}
		if caption.Length() == 0 {
			return
		}

		name := dom.Text(caption)
		if name == "" || strings.Contains(name, "TBD") {
			return
		}

		id := identity.Resolve(caption)
		t.Teams[name] = &Team{
			Name:    name,
			Key:     id.Key,
			Link:    id.Link,
			Members: rosterMembers(card),
		}
	})
}

// rosterMembers returns the players of a team card. Rows marked DNP (did not
// play) are substitutes and left out.
func rosterMembers(card *goquery.Selection) []Member {
	members := []Member{}
	card.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		if strings.Contains(dom.Text(row), "DNP") {
			return
		}
		cells := dom.Cells(row)
		if cells.Length() == 0 {
			return
		}
		last := cells.Last()
		name := dom.Text(last)
		if name == "" {
			return
		}

		var link string
		if anchor := lastNamedAnchor(last); anchor != nil {
			link = identity.ValidLink(anchor)
		}
		members = append(members, Member{Name: name, Link: link})
	})
	return members
}
