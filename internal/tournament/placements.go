package tournament

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
)

const (
	firstPlaceClass = "background-color-first-place"
	prizePoolClass  = "prizepooltable"

	// placeCells is the number of cells (place, prize) that open a placement group
	placeCells = 2
)

// placeLabelPattern matches place labels such as "1st", "3rd-4th" or "17th-32nd"
var placeLabelPattern = regexp.MustCompile(`^[0-9]+(st|nd|rd|th)(-[0-9]+(st|nd|rd|th))?$`)

// entrant is a name cell of the prize pool resolved to a display name and key
type entrant struct {
	name string
	key  string
	link string
}

// runnerUpGroup is one entry of the runners-up list: a single entrant, or all
// entrants sharing a tied label such as "3rd-4th"
type runnerUpGroup struct {
	tie   string
	names []string
}

// findPrizePool returns the first prize pool table that contains a first place
// row. Tables without one (qualifier pools, empty templates) are skipped.
func findPrizePool(main *goquery.Selection) (*goquery.Selection, bool) {
	candidates := dom.FindAllByClass(main, prizePoolClass)
	for i := range candidates.Nodes {
		table := candidates.Eq(i)
		if _, ok := dom.Lookup(table, firstPlaceClass); ok {
			return table, true
		}
	}
	return nil, false
}

// hasTeamMarker reports whether the first place row renders a team template
func hasTeamMarker(table *goquery.Selection) bool {
	row, ok := dom.Lookup(table, firstPlaceClass)
	if !ok {
		return false
	}
	marked := false
	row.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("team") || dom.ClassStartsWith("team-template", s) {
			marked = true
		}
		return !marked
	})
	return marked
}

// nameColumnIndex locates the participant column from the header row. The
// second result is false when no header matched, in which case callers fall
// back to the first cell after place and prize.
func (t *Tournament) nameColumnIndex(table *goquery.Selection) (int, bool) {
	labels := []string{"Participant", "Player"}
	if t.Team {
		labels = []string{"Participant", "Team"}
	}

	headers := table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.ChildrenFiltered("th").Length() > 0
	}).First()
	cells := dom.Cells(headers)

	for _, label := range labels {
		for i := range cells.Nodes {
			if strings.Contains(dom.Text(cells.Eq(i)), label) {
				return i, true
			}
		}
	}
	return 0, false
}

// loadPlacements scans the prize pool table top to bottom. A row whose first
// cell carries a rowspan (or a place label) opens a placement group; every
// row then contributes one name cell recorded under the current group.
func (t *Tournament) loadPlacements(table *goquery.Selection) {
	column, found := t.nameColumnIndex(table)
	if !found {
		column = placeCells
		logger.Debug("prize pool has no name header, using default column", logger.Fields{
			"url":    t.URL,
			"column": column,
		})
		logger.IncrCounter("placements.default_column")
	}

	var (
		place, prize string
		offset       int // cells spanned from the group row into continuation rows
		winner       *entrant
		second       []string
		groups       []*runnerUpGroup
		ties         = make(map[string]*runnerUpGroup)
	)

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}

		index := column - offset
		if opensGroup(cells) {
			place = normalizePlace(dom.Text(cells.Eq(0)))
			prize = ""
			if cells.Length() > 1 {
				prize = normalizePrize(dom.Text(cells.Eq(1)))
			}
			offset = spannedBefore(cells, column)
			index = column
		}
		if place == "" || index < 0 || index >= cells.Length() {
			return
		}

		cell := cells.Eq(index)
		if strings.Contains(dom.Text(cell), "TBD") {
			return
		}
		e, ok := t.resolveEntrant(cell)
		if !ok {
			return
		}

		t.Placements[e.key] = Placement{Place: place, Prize: prize}

		switch {
		case strings.HasPrefix(place, "1st"):
			if winner == nil {
				winner = &e
			}
		case strings.HasPrefix(place, "2nd"):
			second = append(second, e.name)
		case strings.HasPrefix(place, "3rd-"):
			group, ok := ties[place]
			if !ok {
				group = &runnerUpGroup{tie: place}
				ties[place] = group
				groups = append(groups, group)
			}
			group.names = append(group.names, e.name)
		case place == "3rd" || place == "4th":
			groups = append(groups, &runnerUpGroup{names: []string{e.name}})
		}
	})

	if winner != nil {
		t.FirstPlace = winner.name
		t.FirstPlaceLink = winner.link
	}
	if len(second) > 0 {
		t.SecondPlace = strings.Join(second, " - ")
	}
	if len(groups) > 0 {
		runnersUp := make([]string, 0, len(groups))
		for _, g := range groups {
			runnersUp = append(runnersUp, strings.Join(g.names, " - "))
		}
		t.RunnersUp = runnersUp
	}
}

// opensGroup reports whether a prize pool row starts a new placement group
func opensGroup(cells *goquery.Selection) bool {
	first := cells.First()
	if _, ok := first.Attr("rowspan"); ok {
		return true
	}
	return cells.Length() > placeCells && placeLabelPattern.MatchString(normalizePlace(dom.Text(first)))
}

// spannedBefore counts the cells left of column that span into later rows
func spannedBefore(cells *goquery.Selection, column int) int {
	spanned := 0
	for i := 0; i < column && i < cells.Length(); i++ {
		n, err := strconv.Atoi(cells.Eq(i).AttrOr("rowspan", "1"))
		if err == nil && n > 1 {
			spanned++
		}
	}
	return spanned
}

func normalizePlace(text string) string {
	return strings.ReplaceAll(text, " ", "")
}

func normalizePrize(text string) string {
	if text == "-" {
		return ""
	}
	return text
}

// resolveEntrant turns a prize pool name cell into a display name and key.
// Individuals are named by the cell's last link; teams by their team template
// link, composed with the roster when one is known.
func (t *Tournament) resolveEntrant(cell *goquery.Selection) (entrant, bool) {
	if t.Team {
		return t.resolveTeamEntrant(cell)
	}

	anchor := lastNamedAnchor(cell)
	if anchor == nil {
		name := dom.Text(cell)
		return entrant{name: name, key: name}, name != ""
	}

	id := identity.Resolve(anchor)
	return entrant{name: dom.Text(anchor), key: id.Key, link: id.Link}, id.Key != ""
}

func (t *Tournament) resolveTeamEntrant(cell *goquery.Selection) (entrant, bool) {
	teamAnchor := cell.Find(".team-template-text a").First()
	if teamAnchor.Length() == 0 {
		teamAnchor = firstNamedAnchor(cell)
	}
	if teamAnchor == nil || teamAnchor.Length() == 0 {
		name := dom.Text(cell)
		return entrant{name: name, key: name}, name != ""
	}

	teamName := dom.Text(teamAnchor)
	id := identity.Resolve(teamAnchor)

	var members []string
	cell.Find("a").Each(func(_ int, a *goquery.Selection) {
		if a.Nodes[0] == teamAnchor.Nodes[0] {
			return
		}
		if name := dom.Text(a); name != "" {
			members = append(members, name)
		}
	})
	if len(members) == 0 {
		if team, ok := t.Teams[teamName]; ok {
			for _, m := range team.Members {
				members = append(members, m.Name)
			}
		}
	}

	name := teamName
	if len(members) > 0 {
		name = teamName + " (" + strings.Join(members, ", ") + ")"
	}
	return entrant{name: name, key: id.Key, link: id.Link}, id.Key != ""
}

// lastNamedAnchor returns the last link with visible text; flag icons are
// links without text and never name anyone
func lastNamedAnchor(sel *goquery.Selection) *goquery.Selection {
	named := namedAnchors(sel)
	if named.Length() == 0 {
		return nil
	}
	return named.Last()
}

func firstNamedAnchor(sel *goquery.Selection) *goquery.Selection {
	named := namedAnchors(sel)
	if named.Length() == 0 {
		return nil
	}
	return named.First()
}

func namedAnchors(sel *goquery.Selection) *goquery.Selection {
	return sel.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return dom.Text(a) != ""
	})
}
