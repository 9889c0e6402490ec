package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate SortOrder = "date"
	SortByName SortOrder = "name"
	SortByTier SortOrder = "tier"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortByDate, SortByName, SortByTier:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'name' or 'tier')", s)
	}
}

// sortTournaments sorts a slice of tournaments based on the specified sort order
func sortTournaments(tournaments []*tournament.Tournament, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(tournaments, func(i, j int) bool {
			return compareByDate(tournaments[i], tournaments[j])
		})
	case SortByName:
		sort.SliceStable(tournaments, func(i, j int) bool {
			if !strings.EqualFold(tournaments[i].Name, tournaments[j].Name) {
				return strings.ToLower(tournaments[i].Name) < strings.ToLower(tournaments[j].Name)
			}
			return compareByDate(tournaments[i], tournaments[j])
		})
	case SortByTier:
		sort.SliceStable(tournaments, func(i, j int) bool {
			if tournaments[i].Tier != tournaments[j].Tier {
				return tierRank(tournaments[i].Tier) < tierRank(tournaments[j].Tier)
			}
			// If tiers are equal, sort by date
			return compareByDate(tournaments[i], tournaments[j])
		})
	}
}

// compareByDate puts the most recent end date first; undated tournaments go last
func compareByDate(i, j *tournament.Tournament) bool {
	if !i.End.IsZero() && !j.End.IsZero() {
		if !i.End.Equal(j.End) {
			return i.End.After(j.End)
		}
		return i.URL < j.URL
	}

	if !i.End.IsZero() {
		return true
	}
	if !j.End.IsZero() {
		return false
	}
	return i.URL < j.URL
}

// tierRank orders "S-Tier" before "A-Tier" before "B-Tier" and so on; unknown tiers go last
func tierRank(tier string) int {
	ranks := map[string]int{"S": 0, "A": 1, "B": 2, "C": 3, "D": 4}
	letter := strings.ToUpper(strings.TrimSpace(strings.SplitN(tier, "-", 2)[0]))
	if rank, ok := ranks[letter]; ok {
		return rank
	}
	return len(ranks)
}
