package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/portal"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/spf13/cobra"
)

// window is a --from/--to date range, both ends inclusive
type window struct {
	from, to string
}

func (w *window) register(cmd *cobra.Command, days int) {
	cmd.Flags().StringVar(&w.from, "from", "", fmt.Sprintf("Window start, YYYY-MM-DD (default %d days before --to)", days))
	cmd.Flags().StringVar(&w.to, "to", "", "Window end, YYYY-MM-DD (default today)")
}

// resolve parses the flags; the end is extended to the last instant of its day
func (w *window) resolve(now time.Time, days int) (time.Time, time.Time, error) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if w.to != "" {
		parsed, err := time.Parse(dateLayout, w.to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -days)
	if w.from != "" {
		parsed, err := time.Parse(dateLayout, w.from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		from = parsed
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, errors.New("--from must not be after --to")
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}

func newPortalCmd(opts *options) *cobra.Command {
	var (
		completed, ongoing, starting, ending bool
		extra                                string
		sortFlag                             string
		win                                  window
	)

	cmd := &cobra.Command{
		Use:   "portal [path]",
		Short: "List the tournaments of a portal page grouped by game",
		Long: `List the tournaments of a portal page (default ` + portal.DefaultPath + `).

Without a filter every tournament is listed. The filters select tournaments by
the --from/--to window:
  --completed  ended within the window
  --starting   started within the window
  --ending     started before the window and ended within it
  --ongoing    running for the whole window`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortFlag)
			if err != nil {
				return err
			}

			selected := 0
			for _, on := range []bool{completed, ongoing, starting, ending} {
				if on {
					selected++
				}
			}
			if selected > 1 {
				return errors.New("use at most one of --completed, --ongoing, --starting and --ending")
			}

			from, to, err := win.resolve(time.Now().UTC(), 7)
			if err != nil {
				return err
			}

			p, err := loadPortal(cmd, opts, args, extra)
			if err != nil {
				return err
			}

			var groups map[string][]*tournament.Tournament
			switch {
			case completed:
				groups = p.Completed(from, to)
			case ongoing:
				groups = p.Ongoing(from, to)
			case starting:
				groups = p.Starting(from, to)
			case ending:
				groups = p.Ending(from, to)
			default:
				groups = groupByGame(p.All())
			}

			if opts.output == FormatJSON {
				for _, list := range groups {
					sortTournaments(list, order)
				}
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			return writeGrouped(cmd.OutOrStdout(), groups, order, opts.verbose)
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Only tournaments that ended within the window")
	cmd.Flags().BoolVar(&ongoing, "ongoing", false, "Only tournaments running for the whole window")
	cmd.Flags().BoolVar(&starting, "starting", false, "Only tournaments that started within the window")
	cmd.Flags().BoolVar(&ending, "ending", false, "Only tournaments that started before and ended within the window")
	cmd.Flags().StringVar(&extra, "extra", "", "YAML file of tournaments missing from the portal")
	cmd.Flags().StringVar(&sortFlag, "sort", string(SortByDate), "Sort order: date, name or tier")
	win.register(cmd, 7)

	return cmd
}

// loadPortal loads the portal named by args (or the default) plus the extra file
func loadPortal(cmd *cobra.Command, opts *options, args []string, extra string) (*portal.Portal, error) {
	path := portal.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}

	p := portal.New(opts.fetcher)
	if err := p.Load(cmd.Context(), path); err != nil {
		return nil, fmt.Errorf("loading portal: %w", err)
	}
	if extra != "" {
		if err := p.LoadExtra(extra); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func groupByGame(tournaments []*tournament.Tournament) map[string][]*tournament.Tournament {
	groups := make(map[string][]*tournament.Tournament)
	for _, t := range tournaments {
		groups[t.Game] = append(groups[t.Game], t)
	}
	return groups
}
