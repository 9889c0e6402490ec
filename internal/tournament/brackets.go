package tournament

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
)

const (
	bracketWrapperClass = "bracket-wrapper"
	bracketClass        = "bracket"
	bracketColumnPrefix = "bracket-column"
	bracketGameClass    = "bracket-game"
)

// findBrackets returns the bracket containers below main
func findBrackets(main *goquery.Selection) *goquery.Selection {
	if wrappers := dom.FindAllByClass(main, bracketWrapperClass); wrappers.Length() > 0 {
		return wrappers
	}
	return dom.FindAllByClass(main, bracketClass)
}

// loadBrackets assembles the rounds of every bracket. Each bracket column is
// one round, in source order.
func (t *Tournament) loadBrackets(brackets *goquery.Selection, p *matchParser) {
	brackets.Each(func(_ int, bracket *goquery.Selection) {
		var rounds [][]*Match
		bracket.Find("*").Each(func(_ int, column *goquery.Selection) {
			if !dom.ClassStartsWith(bracketColumnPrefix, column) {
				return
			}
			games := dom.FindAllByClass(column, bracketGameClass)
			if games.Length() == 0 {
				return
			}
			round := make([]*Match, 0, games.Length())
			games.Each(func(_ int, game *goquery.Selection) {
				round = append(round, p.bracketGame(game))
			})
			rounds = append(rounds, round)
		})

		rounds = dropResetSlot(rounds)
		for _, round := range rounds {
			t.Rounds = append(t.Rounds, round)
			for _, m := range round {
				if m.Decided() {
					t.Matches = append(t.Matches, m)
				}
			}
		}
	})
}

// dropResetSlot removes the grand final reset game the wiki always draws:
// a final round as large as the round before it has one game too many.
func dropResetSlot(rounds [][]*Match) [][]*Match {
	n := len(rounds)
	if n < 2 {
		return rounds
	}
	last := rounds[n-1]
	if len(last) != len(rounds[n-2]) || len(last) == 0 {
		return rounds
	}
	if len(last) == 1 {
		return rounds[:n-1]
	}
	rounds[n-1] = last[:len(last)-1]
	return rounds
}

// loadMatchLists parses round-robin and swiss match lists below main
func (t *Tournament) loadMatchLists(main *goquery.Selection, p *matchParser) int {
	found := 0
	main.Find("tr").Each(func(_ int, row *goquery.Selection) {
		m, ok := p.matchListRow(row)
		if !ok {
			return
		}
		found++
		if m.Decided() {
			t.Matches = append(t.Matches, m)
		}
	})
	return found
}
