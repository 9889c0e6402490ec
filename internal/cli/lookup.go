package cli

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/database"
	"github.com/pfrederiksen/liquipedia-results/internal/identity"
	"github.com/pfrederiksen/liquipedia-results/internal/player"
	"github.com/pfrederiksen/liquipedia-results/internal/portal"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/pfrederiksen/liquipedia-results/internal/transfer"
	"github.com/spf13/cobra"
)

func newTournamentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tournament <path>",
		Short: "Load and print one tournament page",
		Example: `  liquipedia-results tournament /ageofempires/Red_Bull_Wololo/5
  liquipedia-results tournament /ageofempires/Red_Bull_Wololo/5 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := tournament.New(args[0])
			if err := t.LoadAdvanced(cmd.Context(), opts.fetcher); err != nil {
				return fmt.Errorf("loading tournament: %w", err)
			}

			if opts.output == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			return writeTournament(cmd.OutOrStdout(), t, opts.verbose)
		},
	}
}

func newPlayerCmd(opts *options) *cobra.Command {
	var (
		sortFlag    string
		matches     bool
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "player <path>",
		Short: "List the tournament results of a player",
		Example: `  liquipedia-results player /ageofempires/Hera
  liquipedia-results player /ageofempires/Hera --matches --database postgres://localhost/liquipedia`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if matches {
				if databaseURL == "" {
					databaseURL = opts.cfg.DatabaseURL
				}
				return archivedMatches(cmd, opts, databaseURL, args[0])
			}

			order, err := parseSortOrder(sortFlag)
			if err != nil {
				return err
			}

			results, err := player.Results(cmd.Context(), opts.fetcher, args[0])
			if err != nil {
				return fmt.Errorf("loading player results: %w", err)
			}
			sortTournaments(results, order)

			if opts.output == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return writePlayerResults(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", string(SortByDate), "Sort order: date, name or tier")
	cmd.Flags().BoolVar(&matches, "matches", false, "List the player's archived matches instead of results")
	cmd.Flags().StringVar(&databaseURL, "database", "", "Postgres DSN of the archive (default $DATABASE_URL)")
	return cmd
}

// archivedMatches lists the matches the sync archive holds for a player
func archivedMatches(cmd *cobra.Command, opts *options, databaseURL, playerPath string) error {
	if databaseURL == "" {
		return fmt.Errorf("--matches needs --database or DATABASE_URL")
	}
	key := identity.FromHref(playerPath).Key
	if key == "" {
		return fmt.Errorf("invalid player path: %q", playerPath)
	}

	db, err := database.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close() // nolint:errcheck

	records, err := db.MatchesOf(key)
	if err != nil {
		return err
	}
	matches := make([]*tournament.Match, 0, len(records))
	for i := range records {
		matches = append(matches, records[i].Match())
	}

	if opts.output == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), matches)
	}
	return writeMatches(cmd.OutOrStdout(), matches)
}

func newMatchesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "matches [path]",
		Short: "List recent match results",
		Long:  "List the standalone match tables of a matches page (default " + portal.MatchesPath + ").",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := portal.MatchesPath
			if len(args) == 1 {
				path = args[0]
			}

			matches, err := portal.MatchResults(cmd.Context(), opts.fetcher, path)
			if err != nil {
				return fmt.Errorf("loading matches: %w", err)
			}

			if opts.output == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			return writeMatches(cmd.OutOrStdout(), matches)
		},
	}
}

func newTransfersCmd(opts *options) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "transfers [path]",
		Short: "List player transfers between teams",
		Long:  "List the transfers of a transfers page (default " + transfer.DefaultPath + ").",
		Example: `  liquipedia-results transfers
  liquipedia-results transfers --since 2023-04-21`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := transfer.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}

			transfers, err := transfer.Transfers(cmd.Context(), opts.fetcher, path)
			if err != nil {
				return fmt.Errorf("loading transfers: %w", err)
			}
			if since != "" {
				day, err := time.Parse(dateLayout, since)
				if err != nil {
					return fmt.Errorf("invalid --since date %q (want %s)", since, dateLayout)
				}
				transfers = transfers.Recent(day)
			}

			if opts.output == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), transfers)
			}
			return writeTransfers(cmd.OutOrStdout(), transfers)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only list transfers on or after this date (YYYY-MM-DD)")
	return cmd
}
