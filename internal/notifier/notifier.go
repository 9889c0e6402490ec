package notifier

import (
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// Notifier defines the interface for announcing tournament results
type Notifier interface {
	// Notify posts one announcement per tournament
	Notify(tournaments []*tournament.Tournament) error
}

// Announceable filters out tournaments that have nothing to announce
func Announceable(tournaments []*tournament.Tournament) []*tournament.Tournament {
	result := make([]*tournament.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if t.Cancelled || t.FirstPlace == "" {
			continue
		}
		result = append(result, t)
	}
	return result
}
