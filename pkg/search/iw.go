package search

import (
	"context"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// maxNoveltyWidth bounds the supported novelty width. Tuples are packed
// with the same pairwise rank idea as the assignment set, which caps the
// width at two.
const maxNoveltyWidth = 2

// noveltyTable tracks which atoms and atom pairs have been seen during an
// IW run. A state is novel if it contains an unseen atom (width 1) or an
// unseen atom pair (width 2). Fluent and derived atom indices share one
// code space, disambiguated in the low bit.
type noveltyTable struct {
	width     int
	seenAtoms *bitset.BitSet
	seenPairs map[uint64]struct{}
}

func newNoveltyTable(width int) *noveltyTable {
	t := &noveltyTable{width: width, seenAtoms: bitset.New(0)}
	if width >= 2 {
		t.seenPairs = make(map[uint64]struct{})
	}
	return t
}

func atomCodes(state *State) []uint32 {
	var codes []uint32
	fluent := state.FluentAtoms()
	for i, ok := fluent.NextSet(0); ok; i, ok = fluent.NextSet(i + 1) {
		codes = append(codes, uint32(i)<<1)
	}
	derived := state.DerivedAtoms()
	for i, ok := derived.NextSet(0); ok; i, ok = derived.NextSet(i + 1) {
		codes = append(codes, uint32(i)<<1|1)
	}
	return codes
}

// observe records the state's atom tuples and reports whether any of them
// was new.
func (t *noveltyTable) observe(state *State) bool {
	codes := atomCodes(state)
	novel := false

	for _, code := range codes {
		if !t.seenAtoms.Test(uint(code)) {
			t.seenAtoms.Set(uint(code))
			novel = true
		}
	}
	if t.width >= 2 {
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				pair := uint64(codes[i])<<32 | uint64(codes[j])
				if _, seen := t.seenPairs[pair]; !seen {
					t.seenPairs[pair] = struct{}{}
					novel = true
				}
			}
		}
	}
	return novel
}

// IW runs a single width-bounded search from the initial state, pruning
// every successor that adds no unseen atom tuple of size up to width.
func (p *Planner) IW(ctx context.Context, width int) (*Result, error) {
	if width < 1 || width > maxNoveltyWidth {
		return nil, fmt.Errorf("%w: unsupported novelty width %d", formalism.ErrDomain, width)
	}

	initial, err := p.states.Initial()
	if err != nil {
		return nil, err
	}

	result, _, err := p.searchFrom(ctx, initial, newNoveltyTable(width), p.GoalHolds)
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case StatusSolved:
		p.handler.OnSolved(result.Plan)
	default:
		p.handler.OnExhausted()
	}
	return result, nil
}

// IteratedWidth runs IW(1), IW(2), ... up to maxWidth, returning the
// first solution found.
func (p *Planner) IteratedWidth(ctx context.Context, maxWidth int) (*Result, error) {
	total := &Result{Status: StatusExhausted}
	for width := 1; width <= maxWidth; width++ {
		result, err := p.IW(ctx, width)
		if err != nil {
			return nil, err
		}
		total.Expanded += result.Expanded
		total.Generated += result.Generated
		if result.Status == StatusSolved {
			total.Status = StatusSolved
			total.Plan = result.Plan
			return total, nil
		}
	}
	return total, nil
}

// SIW serializes the goal: from the current state it runs width-bounded
// searches for a state that strictly increases the number of satisfied
// goal literals, concatenating the sub-plans. It is incomplete but
// effective on problems whose goals decompose.
func (p *Planner) SIW(ctx context.Context, maxWidth int) (*Result, error) {
	if maxWidth < 1 || maxWidth > maxNoveltyWidth {
		return nil, fmt.Errorf("%w: unsupported novelty width %d", formalism.ErrDomain, maxWidth)
	}

	current, err := p.states.Initial()
	if err != nil {
		return nil, err
	}

	total := &Result{Status: StatusSolved, Plan: &Plan{}}
	for !p.GoalHolds(current) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		baseline := p.goalCount(current)
		improved := func(s *State) bool { return p.goalCount(s) > baseline }

		var sub *Result
		var reached *State
		for width := 1; width <= maxWidth; width++ {
			sub, reached, err = p.searchFrom(ctx, current, newNoveltyTable(width), improved)
			if err != nil {
				return nil, err
			}
			total.Expanded += sub.Expanded
			total.Generated += sub.Generated
			if sub.Status == StatusSolved {
				break
			}
		}
		if sub == nil || sub.Status != StatusSolved {
			total.Status = StatusExhausted
			total.Plan = nil
			p.handler.OnExhausted()
			return total, nil
		}

		total.Plan.Actions = append(total.Plan.Actions, sub.Plan.Actions...)
		total.Plan.Cost += sub.Plan.Cost
		current = reached
	}

	p.handler.OnSolved(total.Plan)
	return total, nil
}
