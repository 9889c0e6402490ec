package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/pfrederiksen/liquipedia-results/internal/transfer"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

const dateLayout = "2006-01-02"

// SyncResult is the outcome of a sync run
type SyncResult struct {
	CheckedAt   time.Time                           `json:"checked_at"`
	Tournaments int                                 `json:"tournaments"`
	Loaded      int                                 `json:"loaded"`
	Failures    map[string]string                   `json:"failures,omitempty"`
	NewResults  []*tournament.Tournament            `json:"new_results"`
	ResultCount int                                 `json:"result_count"`
	ByGame      map[string][]*tournament.Tournament `json:"by_game,omitempty"`
}

// writeJSON outputs any value as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeSync outputs a sync result as human-readable text
func writeSync(w io.Writer, result *SyncResult, verbose bool) error {
	fmt.Fprintf(w, "Synced %d tournaments (%d pages loaded)\n", result.Tournaments, result.Loaded)

	if len(result.Failures) > 0 {
		urls := make([]string, 0, len(result.Failures))
		for url := range result.Failures {
			urls = append(urls, url)
		}
		sort.Strings(urls)

		fmt.Fprintf(w, "\n%d pages failed to load:\n", len(urls))
		for _, url := range urls {
			fmt.Fprintf(w, "  %s: %s\n", url, result.Failures[url])
		}
	}

	if result.ResultCount == 0 {
		fmt.Fprintln(w, "\nNo new results found.")
		return nil
	}

	for _, game := range sortedGames(result.ByGame) {
		list := result.ByGame[game]
		fmt.Fprintf(w, "\n%s (%d new):\n", game, len(list))
		for _, t := range list {
			fmt.Fprintf(w, "  NEW: %s - winner %s\n", t.Name, t.FirstPlace)
			if verbose {
				writeDetails(w, t, "       ")
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d new results across %d games\n", result.ResultCount, len(result.ByGame))
	return nil
}

// writeGrouped outputs tournaments grouped by game
func writeGrouped(w io.Writer, groups map[string][]*tournament.Tournament, order SortOrder, verbose bool) error {
	total := 0
	for _, list := range groups {
		total += len(list)
	}
	if total == 0 {
		fmt.Fprintln(w, "No tournaments found.")
		return nil
	}

	for _, game := range sortedGames(groups) {
		list := groups[game]
		if len(list) == 0 {
			continue
		}
		sortTournaments(list, order)

		fmt.Fprintf(w, "\n%s (%d tournaments):\n", displayGame(game), len(list))
		for _, t := range list {
			fmt.Fprintf(w, "  %s\n", listingLine(t))
			if verbose {
				writeDetails(w, t, "       ")
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d tournaments across %d games\n", total, len(groups))
	return nil
}

// writeTournament outputs one fully loaded tournament
func writeTournament(w io.Writer, t *tournament.Tournament, verbose bool) error {
	fmt.Fprintf(w, "%s\n", t.Name)
	writeDetails(w, t, "  ")

	if len(t.Participants) > 0 {
		fmt.Fprintf(w, "\nParticipants (%d):\n", len(t.Participants))
		for _, p := range t.Participants {
			if p.Placed() {
				fmt.Fprintf(w, "  %s (%s)\n", p.Name, p.Place)
			} else {
				fmt.Fprintf(w, "  %s\n", p.Name)
			}
		}
	}

	if len(t.Teams) > 0 {
		names := make([]string, 0, len(t.Teams))
		for name := range t.Teams {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "\nTeams (%d):\n", len(names))
		for _, name := range names {
			members := make([]string, 0, len(t.Teams[name].Members))
			for _, m := range t.Teams[name].Members {
				members = append(members, m.Name)
			}
			fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(members, ", "))
		}
	}

	fmt.Fprintf(w, "\nMatches: %d\n", len(t.Matches))
	if verbose {
		for _, m := range t.Matches {
			fmt.Fprintf(w, "  %s\n", matchLine(m))
		}
	}
	return nil
}

// writeMatches outputs a list of matches, one per line
func writeMatches(w io.Writer, matches []*tournament.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintln(w, matchLine(m))
	}
	fmt.Fprintf(w, "\nTotal: %d matches\n", len(matches))
	return nil
}

// writePlayerResults outputs the rows of a player's results page
func writePlayerResults(w io.Writer, results []*tournament.Tournament) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	for _, t := range results {
		line := fmt.Sprintf("%s  %-8s %-10s %s", formatDate(t.End), t.PlayerPlace, t.Tier, t.Name)
		if t.PlayerPrize != "" {
			line += "  " + t.PlayerPrize
		}
		if t.Team {
			line += "  [team]"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nTotal: %d results\n", len(results))
	return nil
}

// writeTransfers outputs one line per transfer
func writeTransfers(w io.Writer, transfers transfer.List) error {
	if len(transfers) == 0 {
		fmt.Fprintln(w, "No transfers found.")
		return nil
	}
	for _, t := range transfers {
		fmt.Fprintln(w, transferLine(t))
	}
	fmt.Fprintf(w, "\nTotal: %d transfers\n", len(transfers))
	return nil
}

func transferLine(t *transfer.Transfer) string {
	names := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	line := fmt.Sprintf("%s  %s: %s -> %s", formatDate(t.Date), strings.Join(names, ", "), teamOrNone(t.Old), teamOrNone(t.New))
	if t.Ref != "" {
		line += "  " + t.Ref
	}
	return line
}

func teamOrNone(team string) string {
	if team == "" {
		return "None"
	}
	return team
}

func writeDetails(w io.Writer, t *tournament.Tournament, indent string) {
	fmt.Fprintf(w, "%sURL: %s\n", indent, t.URL)
	if t.Game != "" {
		fmt.Fprintf(w, "%sGame: %s\n", indent, t.Game)
	}
	fmt.Fprintf(w, "%sDates: %s - %s\n", indent, formatDate(t.Start), formatDate(t.End))
	if t.Tier != "" {
		fmt.Fprintf(w, "%sTier: %s\n", indent, t.Tier)
	}
	if t.Prize != "" {
		fmt.Fprintf(w, "%sPrize pool: %s\n", indent, t.Prize)
	}
	if t.ParticipantCount >= 0 {
		fmt.Fprintf(w, "%sParticipants: %d\n", indent, t.ParticipantCount)
	}
	if t.Cancelled {
		fmt.Fprintf(w, "%sCancelled\n", indent)
	}
	if t.FirstPlace != "" {
		fmt.Fprintf(w, "%sWinner: %s\n", indent, t.FirstPlace)
	}
	if t.SecondPlace != "" {
		fmt.Fprintf(w, "%sRunner-up: %s\n", indent, t.SecondPlace)
	}
	if len(t.RunnersUp) > 0 {
		fmt.Fprintf(w, "%sSemifinalists: %s\n", indent, strings.Join(t.RunnersUp, ", "))
	}
}

func listingLine(t *tournament.Tournament) string {
	line := fmt.Sprintf("%s  %s", formatDate(t.End), t.Name)
	if t.Tier != "" {
		line += fmt.Sprintf(" [%s]", t.Tier)
	}
	switch {
	case t.Cancelled:
		line += "  (cancelled)"
	case t.FirstPlace != "":
		line += "  Winner: " + t.FirstPlace
	}
	return line
}

func matchLine(m *tournament.Match) string {
	line := fmt.Sprintf("%s def. %s", m.Winner, m.Loser)
	switch {
	case m.Score == tournament.ForfeitScore:
		line += " (forfeit)"
	case m.Score != "":
		line += " " + m.Score
	case !m.Played:
		line += " (not played)"
	}
	if m.Date != nil {
		line += fmt.Sprintf(" on %s", formatDate(*m.Date))
	}
	if m.Tournament != "" {
		line += fmt.Sprintf(" [%s]", m.Tournament)
	}
	return line
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "????-??-??"
	}
	return t.Format(dateLayout)
}

func displayGame(game string) string {
	if game == "" {
		return "Unknown game"
	}
	return game
}

func sortedGames(groups map[string][]*tournament.Tournament) []string {
	games := make([]string, 0, len(groups))
	for game := range groups {
		games = append(games, game)
	}
	sort.Strings(games)
	return games
}
