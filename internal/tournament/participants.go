package tournament

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
)

const (
	participantsHeading = "Participants"
	playerRowClass      = "player-row"
)

// findParticipantsSection returns the first container after the Participants
// heading that holds player rows
func findParticipantsSection(main *goquery.Selection) (*goquery.Selection, bool) {
	heading := main.Find("h2, h3").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.Contains(dom.Text(h), participantsHeading)
	}).First()
	if heading.Length() == 0 {
		return nil, false
	}

	// Newer skins wrap headings in <div class="mw-heading">
	if parent := heading.Parent(); dom.ClassStartsWith("mw-heading", parent) {
		heading = parent
	}

	for sel, ok := dom.NextElement(heading); ok; sel, ok = dom.NextElement(sel) {
		if goquery.NodeName(sel) == "h2" || dom.ClassStartsWith("mw-heading2", sel) {
			break
		}
		if sel.HasClass(playerRowClass) {
			return sel.Parent(), true
		}
		if _, found := dom.Lookup(sel, playerRowClass); found {
			return sel, true
		}
	}
	return nil, false
}

// loadParticipants collects every linked entrant of the participants section.
// Names are unique (first occurrence wins) and the result is sorted by name.
func (t *Tournament) loadParticipants(section *goquery.Selection) {
	seen := make(map[string]bool)
	var participants []Participant

	dom.FindAllByClass(section, playerRowClass).Each(func(_ int, row *goquery.Selection) {
		row.ChildrenFiltered("td").Each(func(_ int, cell *goquery.Selection) {
			anchor := lastNamedAnchor(cell)
			if anchor == nil {
				return
			}
			name := dom.Text(anchor)
			if strings.Contains(name, "TBD") || seen[name] {
				return
			}
			seen[name] = true

			id := identity.Resolve(anchor)
			participants = append(participants, Participant{
				Name:      name,
				Key:       id.Key,
				Link:      id.Link,
				Placement: t.Placements[id.Key],
			})
		})
	})

	sortParticipants(participants)
	if participants == nil {
		participants = []Participant{}
	}
	t.Participants = participants
}
