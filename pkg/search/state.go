package search

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// State is an interned world: the fluent atoms established by effects and
// the derived atoms computed from them by the axiom fixed point. Two
// semantically equal states share one index; the derived part is a pure
// function of the fluent part under the problem's axiom set, so the state
// table keys on the fluent bitset alone.
type State struct {
	index   Index
	fluent  *bitset.BitSet
	derived *bitset.BitSet
}

// Index returns the state's position in the repository.
func (s *State) Index() Index { return s.index }

// FluentAtoms returns the fluent bitset. The returned set must not be
// mutated.
func (s *State) FluentAtoms() *bitset.BitSet { return s.fluent }

// DerivedAtoms returns the derived bitset. The returned set must not be
// mutated.
func (s *State) DerivedAtoms() *bitset.BitSet { return s.derived }

// ContainsFluent reports whether the fluent ground atom with the given
// index holds.
func (s *State) ContainsFluent(i Index) bool { return s.fluent.Test(uint(i)) }

// ContainsDerived reports whether the derived ground atom with the given
// index holds.
func (s *State) ContainsDerived(i Index) bool { return s.derived.Test(uint(i)) }

// FluentLiteralHolds reports whether a ground fluent literal holds.
func (s *State) FluentLiteralHolds(l *formalism.GroundLiteral[formalism.Fluent]) bool {
	return s.fluent.Test(uint(l.Atom().Index())) != l.Negated()
}

// DerivedLiteralHolds reports whether a ground derived literal holds.
func (s *State) DerivedLiteralHolds(l *formalism.GroundLiteral[formalism.Derived]) bool {
	return s.derived.Test(uint(l.Atom().Index())) != l.Negated()
}

// StateRepository interns non-extended fluent states, computes their
// derived atoms through the applicable-action generator's axiom
// evaluator, and produces successors. It is the only mutator of state
// storage; states are referenced by index throughout search.
type StateRepository struct {
	generator *ApplicableActionGenerator
	hasAxioms bool

	states []*State
	lookup map[string]Index

	reachedFluent  *roaring.Bitmap
	reachedDerived *roaring.Bitmap
}

// NewStateRepository creates an empty state repository on top of a
// compiled applicable-action generator.
func NewStateRepository(generator *ApplicableActionGenerator) *StateRepository {
	return &StateRepository{
		generator:      generator,
		hasAxioms:      generator.Problem().HasAxioms(),
		lookup:         make(map[string]Index),
		reachedFluent:  roaring.New(),
		reachedDerived: roaring.New(),
	}
}

// Initial constructs and interns the initial state from the problem's
// positive fluent initial literals. A negative fluent initial literal is
// rejected with ErrDomain.
func (r *StateRepository) Initial() (*State, error) {
	fluent := bitset.New(0)
	for _, literal := range r.generator.Problem().FluentInit() {
		if literal.Negated() {
			return nil, fmt.Errorf("%w: negative fluent literal %s in the initial state", formalism.ErrDomain, literal)
		}
		fluent.Set(uint(literal.Atom().Index()))
	}
	return r.GetOrCreateState(fluent)
}

// GetOrCreateState interns the extended state of a fluent bitset. On a
// table hit the cached extended state is returned; on a miss the axiom
// evaluator computes the derived bitset and the pair is stored. The
// caller must not retain or mutate the bitset afterwards.
func (r *StateRepository) GetOrCreateState(fluent *bitset.BitSet) (*State, error) {
	key := stateKey(fluent)
	if index, ok := r.lookup[key]; ok {
		return r.states[index], nil
	}

	r.accumulate(r.reachedFluent, fluent)

	derived := bitset.New(0)
	if r.hasAxioms {
		var err error
		derived, err = r.generator.AxiomsFixpoint(fluent)
		if err != nil {
			return nil, err
		}
		r.accumulate(r.reachedDerived, derived)
	}

	state := &State{index: Index(len(r.states)), fluent: fluent, derived: derived}
	r.states = append(r.states, state)
	r.lookup[key] = state.index
	return state, nil
}

// Successor applies a ground action to a state and interns the result.
// The STRIPS delete set is applied before the add set, so an action that
// both deletes and adds an atom leaves it set. Conditional effects fire
// based on the pre-state, never on the partially updated result.
func (r *StateRepository) Successor(state *State, action *GroundAction) (*State, error) {
	result := state.fluent.Clone()
	result.InPlaceDifference(action.effect.Negative)
	result.InPlaceUnion(action.effect.Positive)

	for i := range action.conditionalEffects {
		ce := &action.conditionalEffects[i]
		if !ce.Precondition.IsApplicable(state.fluent, state.derived) {
			continue
		}
		if ce.Negated {
			result.Clear(uint(ce.AtomIndex))
		} else {
			result.Set(uint(ce.AtomIndex))
		}
	}

	return r.GetOrCreateState(result)
}

// StateByIndex returns the state at index i, or an error wrapping
// ErrLookup.
func (r *StateRepository) StateByIndex(i Index) (*State, error) {
	if int(i) >= len(r.states) {
		return nil, fmt.Errorf("%w: state index %d out of range (population %d)", formalism.ErrLookup, i, len(r.states))
	}
	return r.states[i], nil
}

// Count returns the number of interned states.
func (r *StateRepository) Count() int { return len(r.states) }

// ReachedFluentAtoms returns the cumulative set of fluent ground-atom
// indices reached by any interned state. The returned bitmap must not be
// mutated.
func (r *StateRepository) ReachedFluentAtoms() *roaring.Bitmap { return r.reachedFluent }

// ReachedDerivedAtoms returns the cumulative set of derived ground-atom
// indices reached by any interned state. The returned bitmap must not be
// mutated.
func (r *StateRepository) ReachedDerivedAtoms() *roaring.Bitmap { return r.reachedDerived }

func (r *StateRepository) accumulate(into *roaring.Bitmap, bits *bitset.BitSet) {
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		into.Add(uint32(i))
	}
}

// stateKey canonicalizes a fluent bitset into a table key: the word array
// with trailing zero words trimmed, so capacity differences between equal
// sets cannot split table entries.
func stateKey(bits *bitset.BitSet) string {
	words := bits.Bytes()
	for len(words) > 0 && words[len(words)-1] == 0 {
		words = words[:len(words)-1]
	}
	buf := make([]byte, 0, 8*len(words))
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return string(buf)
}
