package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const (
	// DefaultPath is the Age of Empires tournament portal
	DefaultPath = "/ageofempires/Portal:Tournaments"

	cardClass = "tournament-card"
	rowClass  = "divRow"
)

// Portal is the set of tournaments listed on a portal page
type Portal struct {
	fetcher     tournament.Fetcher
	tournaments []*tournament.Tournament
}

// New creates an empty portal that fetches pages through fetcher
func New(fetcher tournament.Fetcher) *Portal {
	return &Portal{
		fetcher:     fetcher,
		tournaments: make([]*tournament.Tournament, 0),
	}
}

// Load fetches a portal page and appends every listed tournament. Rows that
// cannot be parsed are logged and skipped.
func (p *Portal) Load(ctx context.Context, path string) error {
	doc, err := p.fetcher.Fetch(ctx, path)
	if err != nil {
		return fmt.Errorf("fetching portal: %w", err)
	}

	before := len(p.tournaments)
	p.parse(doc.Selection)

	loaded := len(p.tournaments) - before
	logger.SetGauge("portal.tournaments", float64(len(p.tournaments)))
	logger.Info("Loaded portal", logger.Fields{
		"path":        path,
		"tournaments": loaded,
	})
	return nil
}

func (p *Portal) parse(root *goquery.Selection) {
	dom.FindAllByClass(root, cardClass).Each(func(_ int, card *goquery.Selection) {
		dom.FindAllByClass(card, rowClass).Each(func(i int, row *goquery.Selection) {
			t, err := tournament.FromListingRow(row)
			if err != nil {
				logger.Warn("Skipping portal row", logger.Fields{
					"row":   i,
					"error": err.Error(),
				})
				return
			}
			p.tournaments = append(p.tournaments, t)
		})
	})
}

// All returns every tournament in listing order
func (p *Portal) All() []*tournament.Tournament {
	return p.tournaments
}

// Completed groups by game the tournaments that ended within [from, to]
func (p *Portal) Completed(from, to time.Time) map[string][]*tournament.Tournament {
	return p.byGame(func(t *tournament.Tournament) bool { return t.Completed(from, to) })
}

// Starting groups by game the tournaments that start within [from, to]
func (p *Portal) Starting(from, to time.Time) map[string][]*tournament.Tournament {
	return p.byGame(func(t *tournament.Tournament) bool { return t.Starting(from, to) })
}

// Ending groups by game the tournaments that started before from and end within [from, to]
func (p *Portal) Ending(from, to time.Time) map[string][]*tournament.Tournament {
	return p.byGame(func(t *tournament.Tournament) bool { return t.Ending(from, to) })
}

// Ongoing groups by game the tournaments running for the whole of [from, to]
func (p *Portal) Ongoing(from, to time.Time) map[string][]*tournament.Tournament {
	return p.byGame(func(t *tournament.Tournament) bool { return t.Ongoing(from, to) })
}

func (p *Portal) byGame(keep func(*tournament.Tournament) bool) map[string][]*tournament.Tournament {
	groups := make(map[string][]*tournament.Tournament)
	for _, t := range p.tournaments {
		if t.Cancelled || !keep(t) {
			continue
		}
		groups[t.Game] = append(groups[t.Game], t)
	}
	return groups
}

// Find returns the tournament listed under url
func (p *Portal) Find(url string) (*tournament.Tournament, bool) {
	for _, t := range p.tournaments {
		if t.URL == url {
			return t, true
		}
	}
	return nil, false
}
