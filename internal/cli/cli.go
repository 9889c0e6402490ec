package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pfrederiksen/liquipedia-results/internal/config"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/provider"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitNewResults = 2
)

// exitError carries a non-zero exit code without an error message
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// options holds the persistent flags and what PersistentPreRunE builds from them
type options struct {
	dataDir  string
	format   string
	fixtures string
	envFile  string
	verbose  bool

	cfg     *config.Config
	output  OutputFormat
	fetcher tournament.Fetcher
}

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "liquipedia-results",
		Short: "Parse esports tournament results from Liquipedia",
		Long: `A CLI tool to read tournament listings, brackets and results from Liquipedia.
Keeps a local snapshot of parsed tournaments and reports newly decided ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "Data directory for snapshots (default $DATA_DIR or ~/.liquipedia-results)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.fixtures, "fixtures", "", "Read pages from this directory instead of liquipedia.net")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load settings from")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newTournamentCmd(opts),
		newPortalCmd(opts),
		newPlayerCmd(opts),
		newMatchesCmd(opts),
		newTransfersCmd(opts),
		newSyncCmd(opts),
		newCalendarCmd(opts),
		newAnnounceCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

func (o *options) setup(cmd *cobra.Command) error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	o.output = format

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	o.cfg = cfg
	if o.dataDir == "" {
		o.dataDir = cfg.DataDir
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if o.fixtures != "" {
		o.fetcher = provider.NewFile(o.fixtures)
		logger.Debug("Reading pages from fixtures", logger.Fields{"dir": o.fixtures})
	} else {
		o.fetcher = provider.NewHTTP(cfg.ProviderOptions()...)
		logger.Debug("Reading pages from the web", logger.Fields{"base_url": cfg.BaseURL})
	}

	return nil
}

// run executes args against a fresh root command and returns the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
