// Package formalism provides the data model of a ground PDDL planning
// problem together with an interning repository that guarantees structural
// deduplication: every semantically distinct term, atom, literal, function
// expression, effect, schema, and problem is allocated exactly once and is
// referred to thereafter by a stable index.
//
// The central invariant is that equality of indices is equivalent to
// semantic equality. Constructors accept already-interned children, so a
// structural equality check on a parent reduces to comparing the child
// indices, and every cache built on top of the repository (groundings,
// state interning) degenerates to an index-keyed hash table.
//
// Predicates, atoms, and literals come in three populations with disjoint
// semantics, distinguished by a phantom kind parameter:
//   - Static: true or false for the lifetime of the problem; used only to
//     prune variable bindings before search.
//   - Fluent: directly modified by action effects.
//   - Derived: recomputed from a fixed point of the axioms after every
//     state change.
//
// A Repository is a per-problem value. It is not safe for concurrent use;
// callers that want parallel search run independent problem instances,
// each with its own Repository.
package formalism

import "fmt"

// Index identifies an interned value within its kind-specific store.
// Zero is a valid index; there is no null index. Optionality is always
// carried explicitly (a nil pointer or an ok bool).
type Index uint32

// Static, Fluent, and Derived are phantom kind tags. They carry no data;
// they only select one of the three predicate populations at the type
// level, so that, for example, a Literal[Fluent] can never be stored in a
// list of Literal[Derived].
type (
	// Static marks predicates whose ground atoms never change truth value.
	Static struct{}
	// Fluent marks predicates modified by action effects.
	Fluent struct{}
	// Derived marks predicates computed by axioms.
	Derived struct{}
)

// Kind is the constraint satisfied by the three predicate kind tags.
type Kind interface {
	Static | Fluent | Derived
}

// KindName returns the lower-case name of a kind tag, for diagnostics.
func KindName[K Kind]() string {
	var z K
	switch any(z).(type) {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	}
	return "unknown"
}

// Term is either a Variable or an Object. A schema's atom arguments are
// sequences of terms; ground atoms carry objects only.
type Term interface {
	fmt.Stringer

	// isTerm restricts implementations to *Variable and *Object.
	isTerm()
}
