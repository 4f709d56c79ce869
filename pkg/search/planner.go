package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Status is the outcome of a search run.
type Status int

const (
	// StatusSolved means a plan was found.
	StatusSolved Status = iota
	// StatusUnsolvable means the full search space was exhausted without
	// pruning, proving there is no plan.
	StatusUnsolvable
	// StatusExhausted means the pruned search space was exhausted; the
	// problem may still be solvable at a higher width.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusUnsolvable:
		return "unsolvable"
	case StatusExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Result carries the outcome of a search run together with its counters.
type Result struct {
	Status    Status
	Plan      *Plan
	Expanded  int
	Generated int
}

// Planner wires the interning repository, the applicable-action
// generator, and the state repository into a ready-to-search problem
// instance. A Planner is single-threaded; run independent instances for
// parallel search.
type Planner struct {
	repo      *formalism.Repository
	problem   *formalism.Problem
	generator *ApplicableActionGenerator
	states    *StateRepository
	handler   EventHandler
	logger    *zap.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*plannerConfig)

type plannerConfig struct {
	handler   EventHandler
	logger    *zap.Logger
	cacheSize int
}

// WithEventHandler installs a search observer.
func WithEventHandler(handler EventHandler) PlannerOption {
	return func(c *plannerConfig) { c.handler = handler }
}

// WithPlannerLogger routes planner diagnostics to the given logger.
func WithPlannerLogger(logger *zap.Logger) PlannerOption {
	return func(c *plannerConfig) { c.logger = logger }
}

// WithCacheSize bounds the generator's per-state applicable-action cache.
func WithCacheSize(size int) PlannerOption {
	return func(c *plannerConfig) { c.cacheSize = size }
}

// NewPlanner compiles a problem into a searchable instance. Malformed
// problems are rejected with ErrDomain.
func NewPlanner(repo *formalism.Repository, problem *formalism.Problem, opts ...PlannerOption) (*Planner, error) {
	cfg := plannerConfig{handler: NopEventHandler{}, logger: zap.NewNop(), cacheSize: defaultApplicableCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	generator, err := NewApplicableActionGenerator(repo, problem,
		WithLogger(cfg.logger), WithApplicableCacheSize(cfg.cacheSize))
	if err != nil {
		return nil, err
	}

	return &Planner{
		repo:      repo,
		problem:   problem,
		generator: generator,
		states:    NewStateRepository(generator),
		handler:   cfg.handler,
		logger:    cfg.logger,
	}, nil
}

// Generator returns the planner's applicable-action generator.
func (p *Planner) Generator() *ApplicableActionGenerator { return p.generator }

// States returns the planner's state repository.
func (p *Planner) States() *StateRepository { return p.states }

// Problem returns the problem being solved.
func (p *Planner) Problem() *formalism.Problem { return p.problem }

// GoalHolds reports whether the problem's goal condition holds in the
// state. Static goal literals are checked against the initial static
// atoms; fluent and derived goal literals against the state.
func (p *Planner) GoalHolds(state *State) bool {
	staticPositive := p.generator.StaticPositive()
	for _, literal := range p.problem.StaticGoal() {
		if staticPositive.Test(uint(literal.Atom().Index())) == literal.Negated() {
			return false
		}
	}
	for _, literal := range p.problem.FluentGoal() {
		if !state.FluentLiteralHolds(literal) {
			return false
		}
	}
	for _, literal := range p.problem.DerivedGoal() {
		if !state.DerivedLiteralHolds(literal) {
			return false
		}
	}
	return true
}

// goalCount returns the number of satisfied fluent and derived goal
// literals; SIW uses it as its serialization measure.
func (p *Planner) goalCount(state *State) int {
	count := 0
	for _, literal := range p.problem.FluentGoal() {
		if state.FluentLiteralHolds(literal) {
			count++
		}
	}
	for _, literal := range p.problem.DerivedGoal() {
		if state.DerivedLiteralHolds(literal) {
			count++
		}
	}
	return count
}

// searchEdge records how a state was first reached, for plan extraction.
type searchEdge struct {
	parent Index
	action *GroundAction
}

// extractPlan walks the parent edges back from the goal state and
// reverses them into a plan.
func extractPlan(goal Index, start Index, parents map[Index]searchEdge) *Plan {
	var actions []*GroundAction
	for at := goal; at != start; {
		edge := parents[at]
		actions = append(actions, edge.action)
		at = edge.parent
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	cost := 0.0
	for _, a := range actions {
		cost += a.Cost()
	}
	return &Plan{Actions: actions, Cost: cost}
}

// searchFrom runs a breadth-first search from the given start state until
// accept holds. A nil novelty table means exhaustive search; with a
// table, non-novel successors are pruned. The context is polled between
// state expansions.
func (p *Planner) searchFrom(
	ctx context.Context,
	start *State,
	novelty *noveltyTable,
	accept func(*State) bool,
) (*Result, *State, error) {
	result := &Result{}

	p.handler.OnStateGenerated(start)
	result.Generated++
	if novelty != nil {
		novelty.observe(start)
	}
	if accept(start) {
		result.Status = StatusSolved
		result.Plan = &Plan{}
		return result, start, nil
	}

	parents := make(map[Index]searchEdge)
	visited := map[Index]bool{start.index: true}
	queue := []Index{start.index}
	layer := 0
	nextLayerStart := len(queue)
	processed := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		current := queue[0]
		queue = queue[1:]
		state, err := p.states.StateByIndex(current)
		if err != nil {
			return nil, nil, err
		}

		applicable, err := p.generator.Generate(state)
		if err != nil {
			return nil, nil, err
		}
		for _, action := range applicable {
			successor, err := p.states.Successor(state, action)
			if err != nil {
				return nil, nil, err
			}
			p.handler.OnStateGenerated(successor)
			result.Generated++

			if visited[successor.index] {
				continue
			}
			if novelty != nil && !novelty.observe(successor) {
				continue
			}
			visited[successor.index] = true
			parents[successor.index] = searchEdge{parent: current, action: action}

			if accept(successor) {
				result.Status = StatusSolved
				result.Plan = extractPlan(successor.index, start.index, parents)
				return result, successor, nil
			}
			queue = append(queue, successor.index)
		}

		p.handler.OnStateExpanded(state)
		result.Expanded++
		processed++
		if processed == nextLayerStart {
			p.handler.OnLayerFinished(layer, result.Expanded, result.Generated)
			layer++
			nextLayerStart = processed + len(queue)
		}
	}

	if novelty != nil {
		result.Status = StatusExhausted
	} else {
		result.Status = StatusUnsolvable
	}
	return result, nil, nil
}
