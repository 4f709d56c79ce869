package search

import "context"

// BreadthFirstSearch runs an exhaustive uniform breadth-first search from
// the initial state. It is complete: an empty frontier with no plan
// proves the problem unsolvable. The context is polled between state
// expansions; deadline handling is the caller's concern.
func (p *Planner) BreadthFirstSearch(ctx context.Context) (*Result, error) {
	initial, err := p.states.Initial()
	if err != nil {
		return nil, err
	}

	result, _, err := p.searchFrom(ctx, initial, nil, p.GoalHolds)
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case StatusSolved:
		p.handler.OnSolved(result.Plan)
	case StatusUnsolvable:
		p.handler.OnUnsolvable()
	default:
		p.handler.OnExhausted()
	}
	return result, nil
}
