package main

import (
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/gomimir/pkg/domains"
	"github.com/gitrdm/gomimir/pkg/search"
)

var compareAll bool

var solveCmd = &cobra.Command{
	Use:   "solve <domain>",
	Short: "Solve one built-in instance and print the plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx, cancel, err := runContext(cfg)
		if err != nil {
			return err
		}
		defer cancel()

		if compareAll {
			return solveCompare(cmd, cfg, args[0], logger)
		}

		instance, err := domains.Build(args[0], flagSize)
		if err != nil {
			return err
		}
		result, err := runAlgorithm(ctx, cfg, instance, logger)
		if err != nil {
			return err
		}
		printResult(cmd, instance.Name, cfg.Algorithm, result)
		return nil
	},
}

func init() {
	solveCmd.Flags().BoolVar(&compareAll, "compare", false, "run brfs, iw, and siw side by side")
}

// solveCompare runs every algorithm on its own planner instance
// concurrently; the instances share nothing, so this is safe.
func solveCompare(cmd *cobra.Command, cfg Config, domain string, logger *zap.Logger) error {
	algorithms := []string{"brfs", "iw", "siw"}
	results := make([]*search.Result, len(algorithms))

	ctx, cancel, err := runContext(cfg)
	if err != nil {
		return err
	}
	defer cancel()

	var mu sync.Mutex
	group, ctx := errgroup.WithContext(ctx)
	for i, algorithm := range algorithms {
		group.Go(func() error {
			instance, err := domains.Build(domain, flagSize)
			if err != nil {
				return err
			}
			runCfg := cfg
			runCfg.Algorithm = algorithm
			result, err := runAlgorithm(ctx, runCfg, instance, logger.With(zap.String("algorithm", algorithm)))
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for i, algorithm := range algorithms {
		printResult(cmd, domain, algorithm, results[i])
	}
	return nil
}

func printResult(cmd *cobra.Command, name, algorithm string, result *search.Result) {
	if algorithm == "" {
		algorithm = "brfs"
	}
	cmd.Printf("; %s [%s]: %s (expanded=%d generated=%d)\n",
		name, algorithm, result.Status, result.Expanded, result.Generated)
	if result.Plan != nil {
		cmd.Print(result.Plan.String())
	}
}
