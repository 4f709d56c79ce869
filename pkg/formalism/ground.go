package formalism

// GroundAtom applies a predicate of kind K to objects only. Ground atoms
// are the currency of search: state bitsets, assignment sets, and the
// precondition and effect masks of ground actions are all indexed by
// ground-atom indices.
type GroundAtom[K Kind] struct {
	index     Index
	predicate *Predicate[K]
	objects   []*Object
}

// Index returns the ground atom's position in its kind store.
func (a *GroundAtom[K]) Index() Index { return a.index }

// Predicate returns the applied predicate.
func (a *GroundAtom[K]) Predicate() *Predicate[K] { return a.predicate }

// Objects returns the argument list. The returned slice must not be
// mutated.
func (a *GroundAtom[K]) Objects() []*Object { return a.objects }

// Arity returns the number of arguments.
func (a *GroundAtom[K]) Arity() int { return len(a.objects) }

func (a *GroundAtom[K]) String() string {
	return formatApplication(a.predicate.name, a.objects)
}

// GroundLiteral is a polarized ground atom of kind K.
type GroundLiteral[K Kind] struct {
	index   Index
	negated bool
	atom    *GroundAtom[K]
}

// Index returns the ground literal's position in its kind store.
func (l *GroundLiteral[K]) Index() Index { return l.index }

// Negated reports whether the literal is negative.
func (l *GroundLiteral[K]) Negated() bool { return l.negated }

// Atom returns the underlying ground atom.
func (l *GroundLiteral[K]) Atom() *GroundAtom[K] { return l.atom }

func (l *GroundLiteral[K]) String() string {
	if l.negated {
		return "(not " + l.atom.String() + ")"
	}
	return l.atom.String()
}
