package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
)

const (
	mainContentClass = "mw-parser-output"
	infoBoxClass     = "fo-nttax-infobox"
	headingClass     = "firstHeading"
)

// ErrMainContentMissing is returned for pages without a main content region,
// which usually means the fetched page is not an article at all
var ErrMainContentMissing = errors.New("main content missing")

// Fetcher retrieves a parsed wiki page by its path, e.g. "/ageofempires/Red_Bull_Wololo"
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*goquery.Document, error)
}

// LoadAdvanced fetches the tournament page and fills in everything the
// listing row does not carry. It runs at most once: after a successful load
// further calls return nil without fetching. A failed load leaves the
// tournament unloaded so it can be retried.
func (t *Tournament) LoadAdvanced(ctx context.Context, fetcher Fetcher) error {
	if t.loaded {
		return nil
	}

	start := time.Now()
	doc, err := fetcher.Fetch(ctx, t.URL)
	if err != nil {
		return fmt.Errorf("fetching tournament %s: %w", t.URL, err)
	}

	if err := t.parsePage(doc.Selection); err != nil {
		return err
	}

	t.loaded = true
	logger.RecordTiming("tournament.load", time.Since(start))
	return nil
}

// parsePage reads a tournament page in dependency order: placements before
// participants and teams, and those before matches, which resolve their sides
// against them
func (t *Tournament) parsePage(root *goquery.Selection) error {
	main, err := dom.FindByClass(root, mainContentClass)
	if err != nil {
		return fmt.Errorf("parsing tournament %s: %w: %w", t.URL, ErrMainContentMissing, err)
	}

	log := logger.With(logger.Fields{"url": t.URL})
	absent := func(section string) {
		log.Debug("section absent", logger.Fields{"section": section})
		logger.IncrCounter("sections.absent." + section)
	}

	if t.Name == "" {
		if heading, ok := dom.Lookup(root, headingClass); ok {
			t.Name = dom.Text(heading)
		}
	}
	if t.Description == "" {
		t.Description = firstParagraph(main)
	}

	if box, ok := dom.Lookup(main, infoBoxClass); ok {
		t.loadInfoBox(box)
	} else {
		absent("infobox")
	}

	table, ok := findPrizePool(main)
	if !ok {
		absent("prizepool")
		return nil
	}

	if !t.Team && hasTeamMarker(table) {
		t.Team = true
	}

	if t.Team {
		t.loadTeams(main)
		if len(t.Teams) == 0 {
			absent("teams")
		}
		t.loadPlacements(table)
	} else {
		t.loadPlacements(table)
		if section, ok := findParticipantsSection(main); ok {
			t.loadParticipants(section)
		} else {
			absent("participants")
		}
		if t.ParticipantCount < 0 && len(t.Participants) > 0 {
			t.ParticipantCount = len(t.Participants)
		}
	}

	parser := t.newMatchParser()
	if n := t.loadMatchLists(main, parser); n == 0 {
		absent("matchlist")
	}
	if brackets := findBrackets(main); brackets.Length() > 0 {
		t.loadBrackets(brackets, parser)
	} else {
		absent("bracket")
	}

	log.Debug("tournament parsed", logger.Fields{
		"team":         t.Team,
		"placements":   len(t.Placements),
		"participants": len(t.Participants),
		"teams":        len(t.Teams),
		"rounds":       len(t.Rounds),
		"matches":      len(t.Matches),
	})
	return nil
}

// firstParagraph returns the first non-empty paragraph directly below main
func firstParagraph(main *goquery.Selection) string {
	var text string
	main.ChildrenFiltered("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text = dom.Text(p)
		return text == ""
	})
	return text
}
