package main

import (
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gomimir/internal/parallel"
	"github.com/gitrdm/gomimir/pkg/domains"
	"github.com/gitrdm/gomimir/pkg/search"
)

var benchSizes []int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Solve every built-in domain at several sizes on a worker pool",
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

		type benchRun struct {
			name   string
			result *search.Result
			err    error
		}

		names := make([]string, 0, len(domains.Catalog()))
		for name := range domains.Catalog() {
			names = append(names, name)
		}
		sort.Strings(names)

		pool := parallel.NewWorkerPool(cfg.Workers)
		var mu sync.Mutex
		var runs []benchRun
		var wg sync.WaitGroup

		for _, name := range names {
			for _, size := range benchSizes {
				wg.Add(1)
				err := pool.Submit(ctx, func() {
					defer wg.Done()
					run := benchRun{}
					instance, err := domains.Build(name, size)
					if err != nil {
						run.name = name
						run.err = err
					} else {
						run.name = instance.Name
						run.result, run.err = runAlgorithm(ctx, cfg, instance,
							logger.With(zap.String("instance", instance.Name)))
					}
					mu.Lock()
					runs = append(runs, run)
					mu.Unlock()
				})
				if err != nil {
					wg.Done()
					logger.Warn("bench task rejected", zap.Error(err))
				}
			}
		}
		wg.Wait()
		pool.Shutdown()

		sort.Slice(runs, func(i, j int) bool { return runs[i].name < runs[j].name })
		for _, run := range runs {
			if run.err != nil {
				cmd.Printf("%-20s error: %v\n", run.name, run.err)
				continue
			}
			length := 0
			cost := 0.0
			if run.result.Plan != nil {
				length = run.result.Plan.Length()
				cost = run.result.Plan.Cost
			}
			cmd.Printf("%-20s %-10s plan=%d cost=%g expanded=%d generated=%d\n",
				run.name, run.result.Status, length, cost, run.result.Expanded, run.result.Generated)
		}
		cmd.Println(pool.GetStats().String())
		return nil
	},
}

func init() {
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{3, 4, 5}, "instance sizes to run")
}
