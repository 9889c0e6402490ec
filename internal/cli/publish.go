package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/calendar"
	"github.com/pfrederiksen/liquipedia-results/internal/config"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/notifier"
	"github.com/pfrederiksen/liquipedia-results/internal/storage"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/spf13/cobra"
)

func newCalendarCmd(opts *options) *cobra.Command {
	var game, name, output string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export the snapshot as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(opts)
			if err != nil {
				return err
			}

			list := snap.List()
			if game != "" {
				list = snap.ByGame(game)
			}
			ics := calendar.GenerateCalendar(list, name)

			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(output, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			logger.Info("Wrote calendar", logger.Fields{"path": output, "tournaments": len(list)})
			return nil
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "Only tournaments of this game")
	cmd.Flags().StringVar(&name, "name", "Liquipedia tournaments", "Calendar name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newAnnounceCmd(opts *options) *cobra.Command {
	var (
		via      string
		input    string
		maxPosts int
		win      window
	)

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announce tournament winners",
		Long: `Announce the winners of decided tournaments.

With --input the new_results of a "sync --format json" run are announced
("-" reads stdin). Otherwise the snapshot tournaments that ended within the
--from/--to window are announced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var candidates []*tournament.Tournament
			if input != "" {
				var err error
				candidates, err = readResults(cmd.InOrStdin(), input)
				if err != nil {
					return err
				}
			} else {
				from, to, err := win.resolve(time.Now().UTC(), 1)
				if err != nil {
					return err
				}
				snap, err := loadSnapshot(opts)
				if err != nil {
					return err
				}
				for _, t := range snap.List() {
					if t.Completed(from, to) {
						candidates = append(candidates, t)
					}
				}
			}

			tournaments := notifier.Announceable(candidates)
			if len(tournaments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results to announce")
				return nil
			}
			if maxPosts > 0 && len(tournaments) > maxPosts {
				logger.Warn("Limiting announcements", logger.Fields{"found": len(tournaments), "max": maxPosts})
				tournaments = tournaments[:maxPosts]
			}

			n, err := newNotifier(via, opts.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := n.Notify(tournaments); err != nil {
				return fmt.Errorf("announcing results: %w", err)
			}
			logger.Info("Announced results", logger.Fields{"via": via, "count": len(tournaments)})
			return nil
		},
	}

	cmd.Flags().StringVar(&via, "via", "dryrun", "Where to post: dryrun, twitter, discord or telegram")
	cmd.Flags().StringVar(&input, "input", "", "JSON output of sync to read new results from (- for stdin)")
	cmd.Flags().IntVar(&maxPosts, "max", 10, "Maximum number of announcements to post")
	win.register(cmd, 1)
	return cmd
}

func newNotifier(via string, cfg *config.Config, out io.Writer) (notifier.Notifier, error) {
	switch via {
	case "dryrun":
		return notifier.NewDryRunNotifier(out), nil
	case "twitter":
		return notifier.NewTwitterNotifier(cfg.Twitter)
	case "discord":
		return notifier.NewDiscordNotifier(cfg.DiscordToken, cfg.DiscordChannelID)
	case "telegram":
		return notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	default:
		return nil, fmt.Errorf("unknown notifier: %s (must be dryrun, twitter, discord or telegram)", via)
	}
}

// readResults decodes the new results of a sync JSON document
func readResults(stdin io.Reader, path string) ([]*tournament.Tournament, error) {
	reader := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening results file: %w", err)
		}
		defer f.Close() // nolint:errcheck
		reader = f
	}

	var result SyncResult
	if err := json.NewDecoder(reader).Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing results: %w", err)
	}
	return result.NewResults, nil
}

func loadSnapshot(opts *options) (*storage.Snapshot, error) {
	store, err := storage.New(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}
