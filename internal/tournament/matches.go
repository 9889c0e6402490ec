package tournament

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
)

const (
	bracketCellPrefix  = "bracket-cell-r"
	bracketScoreClass  = "bracket-score"
	timerClass         = "timer-object"
	matchListSlotClass = "matchlistslot"
	highlightAttr      = "data-highlightingclass"
)

// matchParser turns match containers into Match records, resolving side
// labels against the identities collected from the participants section or
// the team cards
type matchParser struct {
	team    bool
	players map[string]Participant
	teams   map[string]*Team
}

func (t *Tournament) newMatchParser() *matchParser {
	players := make(map[string]Participant, len(t.Participants))
	for _, p := range t.Participants {
		players[p.Name] = p
	}
	return &matchParser{team: t.Team, players: players, teams: t.Teams}
}

// resolve maps a side label to an identity key and profile link. Unknown
// labels are kept as-is; fallback is the link of the slot's anchor, if any.
func (p *matchParser) resolve(label, fallback string) (string, string) {
	if p.team {
		if team, ok := p.teams[label]; ok {
			return team.Key, team.Link
		}
		return label, fallback
	}
	if player, ok := p.players[label]; ok {
		return player.Key, player.Link
	}
	return label, fallback
}

type side struct {
	key  string
	link string
	bold bool
}

// bracketGame parses one elimination bracket game
func (p *matchParser) bracketGame(game *goquery.Selection) *Match {
	var sides []side
	game.Find("*").Each(func(_ int, cell *goquery.Selection) {
		if !dom.ClassStartsWith(bracketCellPrefix, cell) || isPlaceholder(cell) {
			return
		}

		label := dom.FirstText(cell)
		if p.team {
			if attr, ok := highlightClass(cell); ok {
				label = attr
			}
		}
		if score := cell.Find("." + bracketScoreClass).First(); score.Length() > 0 && label == dom.Text(score) {
			label = ""
		}

		var fallback string
		if anchor := lastNamedAnchor(cell); anchor != nil {
			fallback = identity.ValidLink(anchor)
		}
		key, link := p.resolve(label, fallback)
		if label == "" {
			key, link = "", ""
		}
		sides = append(sides, side{key: key, link: link, bold: dom.IsBold(cell)})
	})

	var scores []string
	game.Find("." + bracketScoreClass).Each(func(_ int, score *goquery.Selection) {
		scores = append(scores, dom.Text(score))
	})

	m := decide(sides)
	applyScore(m, scores)
	m.Date = findDate(game)
	return m
}

// matchListRow parses a round-robin or swiss match list row. The second
// result is false for rows that are not matches.
func (p *matchParser) matchListRow(row *goquery.Selection) (*Match, bool) {
	slots := row.ChildrenFiltered("." + matchListSlotClass)
	if slots.Length() < 2 {
		return nil, false
	}

	var sides []side
	slots.Each(func(_ int, slot *goquery.Selection) {
		label := dom.Text(slot)
		var fallback string
		if anchor := lastNamedAnchor(slot); anchor != nil {
			fallback = identity.ValidLink(anchor)
		}
		key, link := p.resolve(label, fallback)
		sides = append(sides, side{key: key, link: link, bold: dom.IsBold(slot)})
	})
	m := decide(sides)

	var scores []string
	row.ChildrenFiltered("td").Not("." + matchListSlotClass).Each(func(_ int, cell *goquery.Selection) {
		if d := findDate(cell); d != nil {
			m.Date = d
			return
		}
		if text := dom.Text(cell); isScoreToken(text) {
			scores = append(scores, text)
		}
	})
	applyScore(m, scores)

	// Some match lists put the timer in the row below the match
	if m.Date == nil {
		if next, ok := dom.NextElement(row); ok && next.Find("."+matchListSlotClass).Length() == 0 {
			m.Date = findDate(next)
		}
	}
	return m, true
}

// ParseMatchTable parses a standalone match table, as found on the upcoming
// and recent matches listing. The first row holds the two sides and the
// score; the second holds the date and a link to the tournament.
func ParseMatchTable(table *goquery.Selection) (*Match, bool) {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, false
	}

	cells := rows.First().ChildrenFiltered("td")
	if cells.Length() < 2 {
		return nil, false
	}

	var sides []side
	for _, cell := range []*goquery.Selection{cells.First(), cells.Last()} {
		anchor := lastNamedAnchor(cell)
		if anchor == nil {
			sides = append(sides, side{key: dom.Text(cell), bold: boldWithin(cell)})
			continue
		}
		id := identity.Resolve(anchor)
		sides = append(sides, side{key: id.Key, link: identity.ValidLink(anchor), bold: boldWithin(cell)})
	}

	m := decide(sides)
	// Upcoming matches have no bold side yet; keep them in left/right order
	if m.Winner == "" {
		m.Winner, m.WinnerLink = sides[0].key, sides[0].link
		m.Loser, m.LoserLink = sides[1].key, sides[1].link
	}

	if cells.Length() > 2 {
		versus := dom.Text(cells.Eq(1))
		applyScore(m, strings.Split(versus, ":"))
	}

	if rows.Length() > 1 {
		details := rows.Eq(1)
		m.Date = findDate(details)
		if anchor := details.Find("a[href]").Last(); anchor.Length() > 0 {
			m.Tournament = identity.ValidLink(anchor)
		}
	}
	return m, true
}

// decide builds a match from its sides: the bold side wins. Without a bold
// side there is no winner and the match counts as not played.
func decide(sides []side) *Match {
	m := &Match{}
	winner := -1
	for i, s := range sides {
		if s.bold {
			winner = i
			break
		}
	}
	if winner < 0 || len(sides) < 2 {
		return m
	}

	loser := 1
	if winner == 1 {
		loser = 0
	}
	m.Winner, m.WinnerLink = sides[winner].key, sides[winner].link
	m.Loser, m.LoserLink = sides[loser].key, sides[loser].link
	m.Played = m.Winner != ""
	return m
}

// applyScore formats up to two numeric scores as "high-low". A walkover
// marker anywhere makes the match a forfeit.
func applyScore(m *Match, tokens []string) {
	var points []int
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "W" || token == "FF" {
			m.Score = ForfeitScore
			m.Played = false
			return
		}
		if n, err := strconv.Atoi(token); err == nil && len(points) < 2 {
			points = append(points, n)
		}
	}
	if len(points) == 2 {
		high, low := points[0], points[1]
		if low > high {
			high, low = low, high
		}
		m.Score = fmt.Sprintf("%d-%d", high, low)
	}
}

func isScoreToken(text string) bool {
	if text == "W" || text == "FF" {
		return true
	}
	if len(text) != 1 {
		return false
	}
	return text[0] >= '0' && text[0] <= '9'
}

func findDate(sel *goquery.Selection) *time.Time {
	timer := sel.Find("." + timerClass).First()
	if timer.Length() == 0 {
		return nil
	}
	return ParseMatchDate(dom.Text(timer))
}

// isPlaceholder reports whether a bracket cell is the empty middle slot
// drawn for byes
func isPlaceholder(cell *goquery.Selection) bool {
	for _, class := range strings.Fields(cell.AttrOr("class", "")) {
		if strings.Contains(class, "middle") {
			return true
		}
	}
	return false
}

func highlightClass(cell *goquery.Selection) (string, bool) {
	if attr, ok := cell.Attr(highlightAttr); ok && attr != "" {
		return attr, true
	}
	if attr, ok := cell.Find("[" + highlightAttr + "]").First().Attr(highlightAttr); ok && attr != "" {
		return attr, true
	}
	return "", false
}

func boldWithin(sel *goquery.Selection) bool {
	if dom.IsBold(sel) {
		return true
	}
	bold := false
	sel.Find("[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		bold = dom.IsBold(s)
		return !bold
	})
	return bold
}
