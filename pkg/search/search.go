// Package search implements the runtime core of the planner: assignment
// sets, per-schema consistency graphs, the lifted grounder with its
// k-partite clique enumeration, flat ground action and axiom records, the
// stratified axiom evaluator, the interning state repository, and the
// thin algorithm drivers (breadth-first search, IW, and SIW) layered on
// top of them.
//
// The runtime loop is: the state repository hands out an interned state;
// assignment sets are rebuilt from its fluent and derived atoms; the
// grounder overlays them onto each schema's static consistency graph and
// enumerates applicable ground actions; applying a ground action through
// the state repository yields the (possibly cached) successor state with
// its derived atoms re-computed by the axiom evaluator.
//
// Everything in this package is single-threaded within one problem
// instance. Parallel search is obtained by running independent instances,
// each with its own repository; nothing is shared across instances.
package search

import (
	"strconv"
	"strings"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Index re-exports the repository index type for brevity.
type Index = formalism.Index

// Plan is a sequence of ground actions together with its total cost.
type Plan struct {
	Actions []*GroundAction
	Cost    float64
}

// Length returns the number of actions in the plan.
func (p *Plan) Length() int { return len(p.Actions) }

// String renders the plan in the classical one-action-per-line form, with
// a trailing cost line.
func (p *Plan) String() string {
	var sb strings.Builder
	for _, a := range p.Actions {
		sb.WriteString(a.PlanString())
		sb.WriteByte('\n')
	}
	sb.WriteString("; cost = ")
	sb.WriteString(strconv.FormatFloat(p.Cost, 'g', -1, 64))
	sb.WriteByte('\n')
	return sb.String()
}
