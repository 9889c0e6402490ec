package portal

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"gopkg.in/yaml.v3"
)

// ExtraEntry is a tournament missing from the portal listing, typically a
// sub-event or a community cup, declared by hand
type ExtraEntry struct {
	URL   string `yaml:"url"`
	Name  string `yaml:"name"`
	Game  string `yaml:"game"`
	Tier  string `yaml:"tier"`
	Prize string `yaml:"prize"`
	Start string `yaml:"start"` // YYYY-MM-DD
	End   string `yaml:"end"`
}

// ExtraFile is the layout of an extra tournaments file:
//
//	tournaments:
//	  - url: /ageofempires/MFO_AOC_Tourney
//	    name: MFO AoC Tourney
//	    game: Age of Empires II
//	    start: "2023-05-01"
//	    end: "2023-05-02"
type ExtraFile struct {
	Tournaments []ExtraEntry `yaml:"tournaments"`
}

// LoadExtra appends the tournaments declared in a YAML file, marked Extra.
// Entries already listed by the portal are skipped.
func (p *Portal) LoadExtra(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading extra tournaments: %w", err)
	}

	var file ExtraFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing extra tournaments %s: %w", path, err)
	}

	added := 0
	for i, entry := range file.Tournaments {
		if entry.URL == "" {
			return fmt.Errorf("extra tournament %d in %s has no url", i, path)
		}
		if _, exists := p.Find(entry.URL); exists {
			continue
		}
		p.tournaments = append(p.tournaments, entry.tournament())
		added++
	}

	logger.Info("Loaded extra tournaments", logger.Fields{
		"path":  path,
		"added": added,
	})
	return nil
}

func (e ExtraEntry) tournament() *tournament.Tournament {
	t := tournament.New(e.URL)
	t.Name = e.Name
	t.Game = e.Game
	t.Tier = e.Tier
	t.Prize = e.Prize
	t.Start = tournament.ParseDate(e.Start)
	t.End = tournament.ParseDate(e.End)
	if t.End.IsZero() {
		t.End = t.Start
	}
	t.Extra = true
	return t
}
