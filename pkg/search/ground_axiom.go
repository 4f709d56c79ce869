package search

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// GroundAxiom mirrors GroundAction with a single derived-atom effect: an
// applicable instance asserts exactly one derived atom.
type GroundAxiom struct {
	index        Index
	schema       *formalism.AxiomSchema
	binding      formalism.Binding
	precondition StripsPrecondition
	headAtom     Index
}

// Index returns the ground axiom's position in the grounder's table.
func (a *GroundAxiom) Index() Index { return a.index }

// Schema returns the axiom schema this grounding instantiates.
func (a *GroundAxiom) Schema() *formalism.AxiomSchema { return a.schema }

// Binding returns the object binding. The returned slice must not be
// mutated.
func (a *GroundAxiom) Binding() formalism.Binding { return a.binding }

// Precondition returns the compiled body bitsets.
func (a *GroundAxiom) Precondition() *StripsPrecondition { return &a.precondition }

// HeadAtom returns the index of the derived ground atom the instance
// asserts.
func (a *GroundAxiom) HeadAtom() Index { return a.headAtom }

// IsApplicable reports whether the fluent and derived body literals hold.
func (a *GroundAxiom) IsApplicable(fluent, derived *bitset.BitSet) bool {
	return a.precondition.IsApplicable(fluent, derived)
}

// IsStaticallyApplicable reports whether the static body literals hold.
func (a *GroundAxiom) IsStaticallyApplicable(staticPositive *bitset.BitSet) bool {
	return a.precondition.IsStaticallyApplicable(staticPositive)
}

func (a *GroundAxiom) String() string {
	return formatGroundApplication(a.schema.Head().Atom().Predicate().Name(), a.binding, len(a.binding))
}
