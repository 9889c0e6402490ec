package storage

import (
	"sort"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// Snapshot is the set of tournaments known at a point in time
type Snapshot struct {
	Tournaments map[string]*tournament.Tournament `json:"tournaments"` // keyed by URL
	UpdatedAt   string                            `json:"updated_at"`  // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tournaments: make(map[string]*tournament.Tournament),
	}
}

// CreateSnapshot creates a snapshot from a list of tournaments. A later
// entry for the same URL replaces an earlier one.
func CreateSnapshot(tournaments []*tournament.Tournament, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, t := range tournaments {
		snap.Tournaments[t.URL] = t
	}
	return snap
}

// List returns the tournaments most recent first, ties broken by URL
func (s *Snapshot) List() []*tournament.Tournament {
	list := make([]*tournament.Tournament, 0, len(s.Tournaments))
	for _, t := range s.Tournaments {
		list = append(list, t)
	}
	sortRecentFirst(list)
	return list
}

// ByGame returns the tournaments of one game, most recent first
func (s *Snapshot) ByGame(game string) []*tournament.Tournament {
	list := make([]*tournament.Tournament, 0)
	for _, t := range s.Tournaments {
		if t.Game == game {
			list = append(list, t)
		}
	}
	sortRecentFirst(list)
	return list
}

func sortRecentFirst(list []*tournament.Tournament) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].End.Equal(list[j].End) {
			return list[i].End.After(list[j].End)
		}
		return list[i].URL < list[j].URL
	})
}

// DiffResult holds the tournaments decided since the previous snapshot
type DiffResult struct {
	NewResults []*tournament.Tournament
	Games      map[string][]*tournament.Tournament // new results grouped by game
}

// Diff returns the tournaments of current that have a winner which the
// previous snapshot did not know about. Cancelled tournaments never count.
func Diff(previous *Snapshot, current []*tournament.Tournament) *DiffResult {
	result := &DiffResult{
		NewResults: make([]*tournament.Tournament, 0),
		Games:      make(map[string][]*tournament.Tournament),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, t := range current {
		if t.Cancelled || t.FirstPlace == "" {
			continue
		}
		if old, exists := previous.Tournaments[t.URL]; exists && old.FirstPlace != "" {
			continue
		}
		result.NewResults = append(result.NewResults, t)
		result.Games[t.Game] = append(result.Games[t.Game], t)
	}

	sortRecentFirst(result.NewResults)
	for game := range result.Games {
		sortRecentFirst(result.Games[game])
	}
	return result
}
