package search

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// assignmentRank packs up to two (position, object) pairs into a dense
// integer. Positions and objects are offset by one so that the sentinel
// -1 ("unbound") maps to zero in its digit.
func assignmentRank(firstPosition, firstObject, secondPosition, secondObject, arity, numObjects int32) uint {
	first := int32(1)
	second := first * (arity + 1)
	third := second * (arity + 1)
	fourth := third * (numObjects + 1)
	rank := first*(firstPosition+1) + second*(secondPosition+1) + third*(firstObject+1) + fourth*(secondObject+1)
	return uint(rank)
}

// numAssignments returns the size of the rank space for a predicate of
// the given arity over the given object universe.
func numAssignments(arity, numObjects int32) uint {
	first := int32(1)
	second := first * (arity + 1)
	third := second * (arity + 1)
	fourth := third * (numObjects + 1)
	max := first*arity + second*arity + third*numObjects + fourth*numObjects
	return uint(max + 1)
}

// AssignmentSet records, for every predicate of kind K, which single
// (position, object) assignments and which (position₁, object₁,
// position₂, object₂) pair assignments have a witness in a ground-atom
// population. A ground atom of arity a contributes O(a²) witnesses, which
// supports pairwise consistency checks only: enough to prune bindings,
// not to prove a full assignment consistent.
//
// The static assignment set is built once at problem load; fluent and
// derived assignment sets are rebuilt on every state expansion.
type AssignmentSet[K formalism.Kind] struct {
	numObjects int
	sets       []*bitset.BitSet
}

// NewAssignmentSet builds the assignment set of kind K from a ground-atom
// population. Predicates are addressed by index, so the store's full
// predicate population determines the shape.
func NewAssignmentSet[K formalism.Kind](
	store *formalism.KindStore[K],
	numObjects int,
	atoms []*formalism.GroundAtom[K],
) *AssignmentSet[K] {
	predicates := store.Predicates()
	sets := make([]*bitset.BitSet, len(predicates))
	for i, p := range predicates {
		sets[i] = bitset.New(numAssignments(int32(p.Arity()), int32(numObjects)))
	}

	s := &AssignmentSet[K]{numObjects: numObjects, sets: sets}
	for _, atom := range atoms {
		s.insert(atom)
	}
	return s
}

func (s *AssignmentSet[K]) insert(atom *formalism.GroundAtom[K]) {
	arity := int32(atom.Arity())
	set := s.sets[atom.Predicate().Index()]
	objects := atom.Objects()

	for first := int32(0); first < arity; first++ {
		firstObject := int32(objects[first].Index())
		set.Set(assignmentRank(first, firstObject, -1, -1, arity, int32(s.numObjects)))

		for second := first + 1; second < arity; second++ {
			secondObject := int32(objects[second].Index())
			set.Set(assignmentRank(second, secondObject, -1, -1, arity, int32(s.numObjects)))
			set.Set(assignmentRank(first, firstObject, second, secondObject, arity, int32(s.numObjects)))
		}
	}
}

// VertexConsistent reports whether binding the vertex's parameter to its
// object is compatible with every literal in the list. A positive literal
// requires the witness bit to be set; a negated literal rules the vertex
// out only when it binds the literal completely (arity 1) — otherwise the
// decision is deferred to the edge or final check.
func (s *AssignmentSet[K]) VertexConsistent(literals []*formalism.Literal[K], v Vertex) bool {
	for _, literal := range literals {
		position := int32(-1)
		objectIndex := int32(-1)
		emptyAssignment := true

		arity := int32(literal.Atom().Arity())
		for i, term := range literal.Atom().Terms() {
			variable, ok := term.(*formalism.Variable)
			if !ok {
				continue
			}
			if variable.ParameterIndex() == v.ParameterIndex {
				position = int32(i)
				objectIndex = int32(v.ObjectIndex)
				emptyAssignment = false
				break
			}
		}
		if emptyAssignment {
			continue
		}

		set := s.sets[literal.Atom().Predicate().Index()]
		rank := assignmentRank(position, objectIndex, -1, -1, arity, int32(s.numObjects))
		consistent := set.Test(rank)

		if !literal.Negated() && !consistent {
			return false
		}
		if literal.Negated() && consistent && arity == 1 {
			return false
		}
	}
	return true
}

// EdgeConsistent reports whether jointly binding the edge's two
// parameters is compatible with every literal in the list. Ground object
// arguments of binary predicates participate in the pair rank; a negated
// unary literal rules the edge out when its argument is bound, a negated
// binary literal only when both of its argument slots are bound.
func (s *AssignmentSet[K]) EdgeConsistent(literals []*formalism.Literal[K], e Edge) bool {
	for _, literal := range literals {
		firstPosition := int32(-1)
		secondPosition := int32(-1)
		firstObject := int32(-1)
		secondObject := int32(-1)
		emptyAssignment := true

		arity := int32(literal.Atom().Arity())

	terms:
		for i, term := range literal.Atom().Terms() {
			switch x := term.(type) {
			case *formalism.Object:
				if arity <= 2 {
					if firstPosition < 0 {
						firstPosition = int32(i)
						firstObject = int32(x.Index())
					} else {
						secondPosition = int32(i)
						secondObject = int32(x.Index())
					}
					emptyAssignment = false
				}
			case *formalism.Variable:
				var objectIndex Index
				switch x.ParameterIndex() {
				case e.Src.ParameterIndex:
					objectIndex = e.Src.ObjectIndex
				case e.Dst.ParameterIndex:
					objectIndex = e.Dst.ObjectIndex
				default:
					continue terms
				}
				if firstPosition < 0 {
					firstPosition = int32(i)
					firstObject = int32(objectIndex)
				} else {
					secondPosition = int32(i)
					secondObject = int32(objectIndex)
					emptyAssignment = false
					break terms
				}
				emptyAssignment = false
			}
		}
		if emptyAssignment {
			continue
		}

		set := s.sets[literal.Atom().Predicate().Index()]
		rank := assignmentRank(firstPosition, firstObject, secondPosition, secondObject, arity, int32(s.numObjects))
		consistent := set.Test(rank)

		if !literal.Negated() && !consistent {
			return false
		}
		if literal.Negated() && consistent && (arity == 1 || (arity == 2 && secondPosition >= 0)) {
			return false
		}
	}
	return true
}
