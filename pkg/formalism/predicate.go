package formalism

import (
	"fmt"
	"strings"
)

// Predicate is a relation symbol of kind K with a fixed parameter list.
// Arity is the length of the parameter list.
type Predicate[K Kind] struct {
	index      Index
	name       string
	parameters []*Variable
}

// Index returns the predicate's position in its kind store.
func (p *Predicate[K]) Index() Index { return p.index }

// Name returns the predicate's name.
func (p *Predicate[K]) Name() string { return p.name }

// Parameters returns the predicate's parameter list. The returned slice
// must not be mutated.
func (p *Predicate[K]) Parameters() []*Variable { return p.parameters }

// Arity returns the number of parameters.
func (p *Predicate[K]) Arity() int { return len(p.parameters) }

func (p *Predicate[K]) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(p.name)
	for _, v := range p.parameters {
		sb.WriteByte(' ')
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Atom applies a predicate of kind K to a list of terms. The term list
// has the predicate's arity; terms may be variables or objects.
type Atom[K Kind] struct {
	index     Index
	predicate *Predicate[K]
	terms     []Term
}

// Index returns the atom's position in its kind store.
func (a *Atom[K]) Index() Index { return a.index }

// Predicate returns the applied predicate.
func (a *Atom[K]) Predicate() *Predicate[K] { return a.predicate }

// Terms returns the argument list. The returned slice must not be mutated.
func (a *Atom[K]) Terms() []Term { return a.terms }

// Arity returns the number of arguments.
func (a *Atom[K]) Arity() int { return len(a.terms) }

func (a *Atom[K]) String() string {
	return formatApplication(a.predicate.name, a.terms)
}

// Literal is a polarized atom of kind K.
type Literal[K Kind] struct {
	index   Index
	negated bool
	atom    *Atom[K]
}

// Index returns the literal's position in its kind store.
func (l *Literal[K]) Index() Index { return l.index }

// Negated reports whether the literal is negative.
func (l *Literal[K]) Negated() bool { return l.negated }

// Atom returns the underlying atom.
func (l *Literal[K]) Atom() *Atom[K] { return l.atom }

func (l *Literal[K]) String() string {
	if l.negated {
		return "(not " + l.atom.String() + ")"
	}
	return l.atom.String()
}

func formatApplication[T fmt.Stringer](name string, args []T) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, a := range args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
