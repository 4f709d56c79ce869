package search

import (
	"testing"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// moveFixture is the trivial domain used throughout the grounder and
// state tests: objects {a, b, c}, schema move(?x, ?y) with precondition
// at(?x) ∧ clear(?y) ∧ ?x ≠ ?y, effect ¬at(?x) ∧ at(?y) ∧ clear(?x) ∧
// ¬clear(?y). Inequality is compiled the usual way: a static predicate
// eq with eq(o, o) facts and a negated binary static literal.
type moveFixture struct {
	repo    *formalism.Repository
	problem *formalism.Problem
	move    *formalism.ActionSchema
	at      *formalism.Predicate[formalism.Fluent]
	clear   *formalism.Predicate[formalism.Fluent]
	a, b, c *formalism.Object
}

func newMoveFixture(t *testing.T) *moveFixture {
	t.Helper()
	repo := formalism.NewRepository()

	x := repo.GetOrCreateVariable("?x", 0)
	y := repo.GetOrCreateVariable("?y", 1)
	vars := []*formalism.Variable{x, y}

	eq, err := repo.Static.GetOrCreatePredicate("eq", vars)
	if err != nil {
		t.Fatal(err)
	}
	at, err := repo.Fluent.GetOrCreatePredicate("at", []*formalism.Variable{x})
	if err != nil {
		t.Fatal(err)
	}
	clear, err := repo.Fluent.GetOrCreatePredicate("clear", []*formalism.Variable{x})
	if err != nil {
		t.Fatal(err)
	}

	notEq := repo.Static.GetOrCreateLiteral(true, repo.Static.GetOrCreateAtom(eq, []formalism.Term{x, y}))
	atX := repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(at, []formalism.Term{x}))
	clearY := repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(clear, []formalism.Term{y}))

	eff := func(negated bool, p *formalism.Predicate[formalism.Fluent], v *formalism.Variable) *formalism.SimpleEffect {
		return repo.GetOrCreateSimpleEffect(
			repo.Fluent.GetOrCreateLiteral(negated, repo.Fluent.GetOrCreateAtom(p, []formalism.Term{v})))
	}

	move := repo.GetOrCreateActionSchema("move", 2, vars,
		[]*formalism.Literal[formalism.Static]{notEq},
		[]*formalism.Literal[formalism.Fluent]{atX, clearY},
		nil,
		[]*formalism.SimpleEffect{
			eff(true, at, x), eff(false, at, y), eff(false, clear, x), eff(true, clear, y),
		},
		nil, nil, nil)

	a := repo.GetOrCreateObject("a")
	b := repo.GetOrCreateObject("b")
	c := repo.GetOrCreateObject("c")

	var staticInit []*formalism.GroundLiteral[formalism.Static]
	for _, o := range []*formalism.Object{a, b, c} {
		staticInit = append(staticInit,
			repo.Static.GetOrCreateGroundLiteral(false,
				repo.Static.GetOrCreateGroundAtom(eq, []*formalism.Object{o, o})))
	}

	fground := func(p *formalism.Predicate[formalism.Fluent], o *formalism.Object) *formalism.GroundLiteral[formalism.Fluent] {
		return repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(p, []*formalism.Object{o}))
	}
	fluentInit := []*formalism.GroundLiteral[formalism.Fluent]{
		fground(at, a), fground(clear, b), fground(clear, c),
	}

	goal := []*formalism.GroundLiteral[formalism.Fluent]{fground(at, b)}

	problem := repo.GetOrCreateProblem("move-abc",
		[]*formalism.Object{a, b, c}, nil,
		staticInit, fluentInit, nil,
		nil, goal, nil,
		[]*formalism.ActionSchema{move}, nil, nil)

	return &moveFixture{repo: repo, problem: problem, move: move, at: at, clear: clear, a: a, b: b, c: c}
}

// planStrings projects ground actions to their full string forms.
func planStrings(actions []*GroundAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}

// fluentAtomNames lists the names of the fluent atoms set in a state.
func fluentAtomNames(t *testing.T, repo *formalism.Repository, state *State) []string {
	t.Helper()
	var names []string
	bits := state.FluentAtoms()
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		atom, err := repo.Fluent.GroundAtomByIndex(Index(i))
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, atom.String())
	}
	return names
}

// derivedAtomNames lists the names of the derived atoms set in a state.
func derivedAtomNames(t *testing.T, repo *formalism.Repository, state *State) []string {
	t.Helper()
	var names []string
	bits := state.DerivedAtoms()
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		atom, err := repo.Derived.GroundAtomByIndex(Index(i))
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, atom.String())
	}
	return names
}
