package main

import (
	"github.com/spf13/cobra"

	"github.com/gitrdm/gomimir/pkg/domains"
	"github.com/gitrdm/gomimir/pkg/search"
)

var dotCmd = &cobra.Command{
	Use:   "dot <domain>",
	Short: "Dump consistency graphs and the axiom dependency graph as Graphviz",
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

		instance, err := domains.Build(args[0], flagSize)
		if err != nil {
			return err
		}
		generator, err := search.NewApplicableActionGenerator(instance.Repository, instance.Problem,
			search.WithLogger(logger))
		if err != nil {
			return err
		}

		for _, schema := range instance.Problem.Actions() {
			graph, err := generator.ConsistencyGraph(schema)
			if err != nil {
				return err
			}
			rendered, err := graph.DOT(instance.Repository)
			if err != nil {
				return err
			}
			cmd.Printf("// consistency graph of %s\n%s\n", schema.Name(), rendered)
		}

		if instance.Problem.HasAxioms() {
			cmd.Printf("// derived-predicate dependency graph\n%s\n", generator.AxiomEvaluator().DependencyDOT())
		}
		return nil
	},
}
