package search

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// StripsPrecondition is a grounding's precondition compiled to bitsets
// over ground-atom indices, partitioned by kind and polarity. Static
// positives and negatives are carried for completeness but are an
// invariant of the binding: the grounder guarantees they hold before a
// record is ever built, so runtime applicability tests only consult the
// fluent and derived parts.
type StripsPrecondition struct {
	PositiveStatic  *bitset.BitSet
	NegativeStatic  *bitset.BitSet
	PositiveFluent  *bitset.BitSet
	NegativeFluent  *bitset.BitSet
	PositiveDerived *bitset.BitSet
	NegativeDerived *bitset.BitSet
}

func newStripsPrecondition() StripsPrecondition {
	return StripsPrecondition{
		PositiveStatic:  bitset.New(0),
		NegativeStatic:  bitset.New(0),
		PositiveFluent:  bitset.New(0),
		NegativeFluent:  bitset.New(0),
		PositiveDerived: bitset.New(0),
		NegativeDerived: bitset.New(0),
	}
}

// IsApplicable reports whether the fluent and derived parts hold in the
// given state bitsets.
func (p *StripsPrecondition) IsApplicable(fluent, derived *bitset.BitSet) bool {
	return fluent.IsSuperSet(p.PositiveFluent) &&
		fluent.IntersectionCardinality(p.NegativeFluent) == 0 &&
		derived.IsSuperSet(p.PositiveDerived) &&
		derived.IntersectionCardinality(p.NegativeDerived) == 0
}

// IsStaticallyApplicable reports whether the static part holds against
// the problem's positive static atoms. A false result after grounding
// indicates a bug in the binding machinery, not an inapplicable action.
func (p *StripsPrecondition) IsStaticallyApplicable(staticPositive *bitset.BitSet) bool {
	return staticPositive.IsSuperSet(p.PositiveStatic) &&
		staticPositive.IntersectionCardinality(p.NegativeStatic) == 0
}

// StripsEffect is the unconditional effect compiled to add and delete
// bitsets over fluent ground-atom indices. Deletes are applied before
// adds, so an action that both deletes and adds an atom leaves it set.
type StripsEffect struct {
	Positive *bitset.BitSet
	Negative *bitset.BitSet
}

func newStripsEffect() StripsEffect {
	return StripsEffect{Positive: bitset.New(0), Negative: bitset.New(0)}
}

// GroundConditionalEffect carries its own precondition bitsets plus a
// single simple effect. The precondition is evaluated against the
// pre-state, never against the partially updated successor.
type GroundConditionalEffect struct {
	Precondition StripsPrecondition
	Negated      bool
	AtomIndex    Index
}

// GroundAction is the flat, cache-friendly record of one (schema,
// binding) grounding. Records are built once by the grounder and never
// mutated; identity is the (schema index, binding) pair.
type GroundAction struct {
	index              Index
	schema             *formalism.ActionSchema
	binding            formalism.Binding
	precondition       StripsPrecondition
	effect             StripsEffect
	conditionalEffects []GroundConditionalEffect
	cost               float64
}

// Index returns the ground action's position in the grounder's table.
func (a *GroundAction) Index() Index { return a.index }

// Schema returns the action schema this grounding instantiates.
func (a *GroundAction) Schema() *formalism.ActionSchema { return a.schema }

// Binding returns the object binding. The returned slice must not be
// mutated.
func (a *GroundAction) Binding() formalism.Binding { return a.binding }

// Precondition returns the compiled precondition bitsets.
func (a *GroundAction) Precondition() *StripsPrecondition { return &a.precondition }

// Effect returns the compiled unconditional effect bitsets.
func (a *GroundAction) Effect() *StripsEffect { return &a.effect }

// ConditionalEffects returns the compiled conditional effects, including
// those unrolled from universal effects.
func (a *GroundAction) ConditionalEffects() []GroundConditionalEffect { return a.conditionalEffects }

// Cost returns the action's cost under the problem's numeric fluents.
func (a *GroundAction) Cost() float64 { return a.cost }

// IsApplicable reports whether the fluent and derived preconditions hold
// in the given state.
func (a *GroundAction) IsApplicable(state *State) bool {
	return a.precondition.IsApplicable(state.fluent, state.derived)
}

// IsStaticallyApplicable reports whether the static precondition holds.
func (a *GroundAction) IsStaticallyApplicable(staticPositive *bitset.BitSet) bool {
	return a.precondition.IsStaticallyApplicable(staticPositive)
}

// String renders the full binding, including parameters added by
// compilation.
func (a *GroundAction) String() string {
	return formatGroundApplication(a.schema.Name(), a.binding, len(a.binding))
}

// PlanString renders the grounding the way a plan file does: only the
// first OriginalArity binding entries are printed.
func (a *GroundAction) PlanString() string {
	n := int(a.schema.OriginalArity())
	if n > len(a.binding) {
		n = len(a.binding)
	}
	return formatGroundApplication(a.schema.Name(), a.binding, n)
}

func formatGroundApplication(name string, binding formalism.Binding, n int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for i := 0; i < n; i++ {
		sb.WriteByte(' ')
		sb.WriteString(binding[i].Name())
	}
	sb.WriteByte(')')
	return sb.String()
}
