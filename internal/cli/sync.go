package cli

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/database"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/portal"
	"github.com/pfrederiksen/liquipedia-results/internal/storage"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/spf13/cobra"
)

func newSyncCmd(opts *options) *cobra.Command {
	var (
		extra       string
		databaseURL string
		workers     int
		refresh     bool
		exitCode    bool
		win         window
	)

	cmd := &cobra.Command{
		Use:   "sync [portal-path]",
		Short: "Refresh the snapshot and report newly decided tournaments",
		Long: `Load the portal, load the full page of every tournament overlapping the
--from/--to window, and save everything to the snapshot in --data-dir.
Tournaments whose winner was not known to the previous snapshot are reported
as new results. With a database URL the loaded tournaments are archived too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := win.resolve(time.Now().UTC(), 30)
			if err != nil {
				return err
			}

			store, err := storage.New(opts.dataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			p, err := loadPortal(cmd, opts, args, extra)
			if err != nil {
				return err
			}
			logger.Info("Loaded portal", logger.Fields{"tournaments": len(p.All())})

			selected := overlapping(p.All(), from, to)
			failures, err := portal.LoadAdvancedAll(cmd.Context(), opts.fetcher, selected, workers)
			if err != nil {
				return fmt.Errorf("loading tournaments: %w", err)
			}

			previous := storage.NewSnapshot()
			if !refresh {
				previous, err = store.LoadSnapshot()
				if err != nil {
					return fmt.Errorf("loading snapshot: %w", err)
				}
				logger.Debug("Loaded previous snapshot", logger.Fields{"tournaments": len(previous.Tournaments)})
			}

			current := merge(p.All(), previous)
			diff := storage.Diff(previous, current)

			if err := store.SaveTournaments(current); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			loaded := loadedOnly(current)
			if databaseURL == "" {
				databaseURL = opts.cfg.DatabaseURL
			}
			if databaseURL != "" {
				if err := archive(databaseURL, loaded); err != nil {
					return err
				}
			}

			result := &SyncResult{
				CheckedAt:   time.Now().UTC(),
				Tournaments: len(current),
				Loaded:      len(loaded),
				NewResults:  diff.NewResults,
				ResultCount: len(diff.NewResults),
				ByGame:      diff.Games,
			}
			if len(failures) > 0 {
				result.Failures = make(map[string]string, len(failures))
				for url, err := range failures {
					result.Failures[url] = err.Error()
				}
			}

			// A refresh only rebuilds the baseline
			if refresh {
				result.NewResults = nil
				result.ResultCount = 0
				result.ByGame = nil
			}

			if opts.output == FormatJSON {
				err = writeJSON(cmd.OutOrStdout(), result)
			} else {
				err = writeSync(cmd.OutOrStdout(), result, opts.verbose)
			}
			if err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if exitCode && result.ResultCount > 0 {
				return &exitError{code: ExitNewResults}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&extra, "extra", "", "YAML file of tournaments missing from the portal")
	cmd.Flags().StringVar(&databaseURL, "database", "", "PostgreSQL URL to archive loaded tournaments (default $DATABASE_URL)")
	cmd.Flags().IntVar(&workers, "workers", portal.DefaultWorkers, "Tournament pages loaded concurrently")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild the snapshot without reporting new results")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, fmt.Sprintf("Exit with status %d when new results are found", ExitNewResults))
	win.register(cmd, 30)

	return cmd
}

// overlapping returns the tournaments running at some point of [from, to]
func overlapping(tournaments []*tournament.Tournament, from, to time.Time) []*tournament.Tournament {
	result := make([]*tournament.Tournament, 0)
	for _, t := range tournaments {
		if t.Cancelled || t.Start.IsZero() {
			continue
		}
		end := t.End
		if end.IsZero() {
			end = t.Start
		}
		if !t.Start.After(to) && !end.Before(from) {
			result = append(result, t)
		}
	}
	return result
}

// merge prefers the stored record of a tournament not loaded this run when
// that record holds page details and the same winner
func merge(listed []*tournament.Tournament, previous *storage.Snapshot) []*tournament.Tournament {
	result := make([]*tournament.Tournament, 0, len(listed))
	for _, t := range listed {
		if old, ok := previous.Tournaments[t.URL]; ok && !t.Loaded() && len(old.Matches) > 0 && old.FirstPlace == t.FirstPlace {
			result = append(result, old)
			continue
		}
		result = append(result, t)
	}
	return result
}

func loadedOnly(tournaments []*tournament.Tournament) []*tournament.Tournament {
	result := make([]*tournament.Tournament, 0)
	for _, t := range tournaments {
		if t.Loaded() {
			result = append(result, t)
		}
	}
	return result
}

func archive(databaseURL string, tournaments []*tournament.Tournament) error {
	db, err := database.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close() // nolint:errcheck

	if err := db.Migrate(); err != nil {
		return err
	}
	if err := db.SaveTournaments(tournaments); err != nil {
		return fmt.Errorf("archiving tournaments: %w", err)
	}
	logger.Info("Archived tournaments", logger.Fields{"count": len(tournaments)})
	return nil
}
