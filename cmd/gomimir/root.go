package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gomimir/pkg/domains"
	"github.com/gitrdm/gomimir/pkg/search"
)

var (
	configPath string
	flagAlg    string
	flagWidth  int
	flagSize   int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "gomimir",
	Short:         "Classical planner over lifted grounding and stratified axioms",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML run configuration")
	rootCmd.PersistentFlags().StringVar(&flagAlg, "algorithm", "", "search algorithm: brfs, iw, siw")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "novelty width for iw and siw")
	rootCmd.PersistentFlags().IntVar(&flagSize, "size", 3, "instance size")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")

	rootCmd.AddCommand(solveCmd, benchCmd, dotCmd)
}

// loadRunConfig merges the YAML file with the flags.
func loadRunConfig() (Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if flagAlg != "" {
		cfg.Algorithm = flagAlg
	}
	if flagWidth > 0 {
		cfg.Width = flagWidth
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runContext(cfg Config) (context.Context, context.CancelFunc, error) {
	if cfg.Timeout == "" {
		ctx, cancel := context.WithCancel(context.Background())
		return ctx, cancel, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	return ctx, cancel, nil
}

// runAlgorithm dispatches one search run on a fresh planner.
func runAlgorithm(ctx context.Context, cfg Config, instance *domains.Instance, logger *zap.Logger) (*search.Result, error) {
	planner, err := search.NewPlanner(instance.Repository, instance.Problem,
		search.WithPlannerLogger(logger),
		search.WithEventHandler(search.NewStatisticsEventHandler(logger)),
		search.WithCacheSize(cfg.CacheSize))
	if err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case "", "brfs":
		return planner.BreadthFirstSearch(ctx)
	case "iw":
		return planner.IteratedWidth(ctx, cfg.Width)
	case "siw":
		return planner.SIW(ctx, cfg.Width)
	}
	return nil, errUnknownAlgorithm(cfg.Algorithm)
}

func errUnknownAlgorithm(name string) error {
	return &unknownAlgorithmError{name: name}
}

type unknownAlgorithmError struct{ name string }

func (e *unknownAlgorithmError) Error() string {
	return "unknown algorithm " + e.name + " (expected brfs, iw, or siw)"
}
