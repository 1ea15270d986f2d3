package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/lec-results/internal/config"
	"github.com/pfrederiksen/lec-results/internal/logger"
	"github.com/pfrederiksen/lec-results/internal/match"
	"github.com/pfrederiksen/lec-results/internal/results"
	"github.com/pfrederiksen/lec-results/internal/session"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// errPartial reports that at least one match could not be extracted
var errPartial = errors.New("some matches failed")

var (
	flagObjective        string
	flagConfig           string
	flagEngine           string
	flagRemoteURL        string
	flagTimeout          int
	flagFormat           string
	flagSort             string
	flagAllowMissingDate bool
	flagVerbose          bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lec-results [flags] MATCH_URL...",
		Short: "Extract first-objective results from match-history pages",
		Long: `Extract the game date, both team tags and which team secured an objective first
from rendered match-history pages. Each URL is loaded in its own browser session.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runExtract,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&flagObjective, "objective", "o", string(match.ObjectiveHerald), "Objective to resolve: blood, turret, dragon, baron or herald")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagEngine, "engine", "", "Page engine: chrome or http (overrides config)")
	cmd.Flags().StringVar(&flagRemoteURL, "remote-url", "", "DevTools websocket URL of a running Chrome (overrides config)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Per-operation timeout in seconds, 0 for the engine default (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort results by: date, team or url (default: input order)")
	cmd.Flags().BoolVar(&flagAllowMissingDate, "allow-missing-date", false, "Report matches whose date cannot be parsed instead of failing them")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print session metrics")

	return cmd
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Browser.Engine = strings.ToLower(strings.TrimSpace(flagEngine))
	}
	if flags.Changed("remote-url") {
		cfg.Browser.RemoteURL = flagRemoteURL
	}
	if flags.Changed("timeout") {
		cfg.Browser.TimeoutSec = flagTimeout
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runExtract is the main command logic
func runExtract(cmd *cobra.Command, args []string) error {
	objective, err := match.ParseObjective(flagObjective)
	if err != nil {
		return err
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if !sortOrder.Valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'team' or 'url')", flagSort)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)

	opener, err := session.NewOpener(cfg.Browser, log)
	if err != nil {
		return fmt.Errorf("initializing page sessions: %w", err)
	}

	opts := []results.Option{
		results.WithSelectors(cfg.Selectors),
		results.WithDateFormat(cfg.DateFormat),
		results.WithLogger(log),
	}
	if flagAllowMissingDate {
		opts = append(opts, results.WithLenientDate())
	}
	getter := results.New(opener, opts...)

	log.Debug("Extracting matches", logger.Fields{
		"count":     len(args),
		"objective": string(objective),
		"engine":    cfg.Browser.Engine,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes := getter.GetAll(ctx, args, objective)

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Objective: objective,
	}
	for _, o := range outcomes {
		if o.Err != nil {
			result.Failures = append(result.Failures, Failure{URL: o.URL, Error: o.Err.Error()})
			continue
		}
		result.Matches = append(result.Matches, o.Summary)
	}
	result.MatchCount = len(result.Matches)

	sortSummaries(result.Matches, sortOrder)

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		logger.GetMetricsSnapshot().WriteTo(cmd.ErrOrStderr())
	}

	if len(result.Failures) > 0 {
		return errPartial
	}
	return nil
}

// Execute runs the CLI and exits with the matching status code
func Execute() {
	os.Exit(run(NewRootCmd()))
}

func run(cmd *cobra.Command) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errPartial):
		return ExitPartial
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}
}
