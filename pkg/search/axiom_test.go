package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// reachabilityFixture wires the axiom scenario: static atoms {edge(a,b),
// edge(b,c)}, fluent state {at(a)}, base axiom reachable(y) <- at(x) ∧
// edge(x,y), optional transitive axiom reachable(y) <- reachable(x) ∧
// edge(x,y).
func reachabilityFixture(t *testing.T, transitive bool) (*formalism.Repository, *formalism.Problem) {
	t.Helper()
	repo := formalism.NewRepository()

	x := repo.GetOrCreateVariable("?x", 0)
	y := repo.GetOrCreateVariable("?y", 1)
	vars := []*formalism.Variable{x, y}

	edge, err := repo.Static.GetOrCreatePredicate("edge", vars)
	require.NoError(t, err)
	at, err := repo.Fluent.GetOrCreatePredicate("at", []*formalism.Variable{x})
	require.NoError(t, err)
	reachable, err := repo.Derived.GetOrCreatePredicate("reachable", []*formalism.Variable{x})
	require.NoError(t, err)

	edgeXY := repo.Static.GetOrCreateLiteral(false, repo.Static.GetOrCreateAtom(edge, []formalism.Term{x, y}))
	atX := repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(at, []formalism.Term{x}))
	reachX := repo.Derived.GetOrCreateLiteral(false, repo.Derived.GetOrCreateAtom(reachable, []formalism.Term{x}))
	reachY := repo.Derived.GetOrCreateLiteral(false, repo.Derived.GetOrCreateAtom(reachable, []formalism.Term{y}))

	base, err := repo.GetOrCreateAxiomSchema(vars, reachY,
		[]*formalism.Literal[formalism.Static]{edgeXY},
		[]*formalism.Literal[formalism.Fluent]{atX},
		nil)
	require.NoError(t, err)

	axioms := []*formalism.AxiomSchema{base}
	if transitive {
		step, err := repo.GetOrCreateAxiomSchema(vars, reachY,
			[]*formalism.Literal[formalism.Static]{edgeXY},
			nil,
			[]*formalism.Literal[formalism.Derived]{reachX})
		require.NoError(t, err)
		axioms = append(axioms, step)
	}

	a := repo.GetOrCreateObject("a")
	b := repo.GetOrCreateObject("b")
	c := repo.GetOrCreateObject("c")

	sground := func(from, to *formalism.Object) *formalism.GroundLiteral[formalism.Static] {
		return repo.Static.GetOrCreateGroundLiteral(false,
			repo.Static.GetOrCreateGroundAtom(edge, []*formalism.Object{from, to}))
	}
	staticInit := []*formalism.GroundLiteral[formalism.Static]{sground(a, b), sground(b, c)}
	fluentInit := []*formalism.GroundLiteral[formalism.Fluent]{
		repo.Fluent.GetOrCreateGroundLiteral(false,
			repo.Fluent.GetOrCreateGroundAtom(at, []*formalism.Object{a})),
	}

	name := "reach-base"
	if transitive {
		name = "reach-transitive"
	}
	problem := repo.GetOrCreateProblem(name,
		[]*formalism.Object{a, b, c},
		[]*formalism.Predicate[formalism.Derived]{reachable},
		staticInit, fluentInit, nil,
		nil, nil, nil, nil, axioms, nil)
	return repo, problem
}

func TestAxiomSingleLayer(t *testing.T) {
	repo, problem := reachabilityFixture(t, false)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)

	initial, err := states.Initial()
	require.NoError(t, err)

	// Only the base axiom: one derivation layer.
	assert.ElementsMatch(t, []string{"(reachable b)"}, derivedAtomNames(t, repo, initial))
}

func TestAxiomTransitiveFixpoint(t *testing.T) {
	repo, problem := reachabilityFixture(t, true)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)

	initial, err := states.Initial()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"(reachable b)", "(reachable c)"},
		derivedAtomNames(t, repo, initial))
}

// Property: after the fixpoint, no axiom instance is applicable whose
// head is not already derived.
func TestAxiomFixpointIsClosed(t *testing.T) {
	repo, problem := reachabilityFixture(t, true)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)
	initial, err := states.Initial()
	require.NoError(t, err)

	// Re-running the fixpoint from the same fluent atoms reproduces the
	// same derived set: nothing new is derivable.
	again, err := generator.AxiomsFixpoint(initial.FluentAtoms())
	require.NoError(t, err)
	assert.True(t, initial.DerivedAtoms().Equal(again),
		"fixpoint must be closed and deterministic")
}

func TestAxiomStateHashLaw(t *testing.T) {
	repo, problem := reachabilityFixture(t, true)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)

	s1, err := states.Initial()
	require.NoError(t, err)
	s2, err := states.Initial()
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.True(t, s1.DerivedAtoms().Equal(s2.DerivedAtoms()),
		"equal fluent parts must agree on derived atoms")
}

func TestUnstratifiedAxiomsRejected(t *testing.T) {
	repo := formalism.NewRepository()
	x := repo.GetOrCreateVariable("?x", 0)
	vars := []*formalism.Variable{x}

	p, err := repo.Derived.GetOrCreatePredicate("p", vars)
	require.NoError(t, err)
	q, err := repo.Derived.GetOrCreatePredicate("q", vars)
	require.NoError(t, err)

	pX := repo.Derived.GetOrCreateAtom(p, []formalism.Term{x})
	qX := repo.Derived.GetOrCreateAtom(q, []formalism.Term{x})

	// p(x) <- not q(x) and q(x) <- p(x): a negative cycle.
	first, err := repo.GetOrCreateAxiomSchema(vars,
		repo.Derived.GetOrCreateLiteral(false, pX), nil, nil,
		[]*formalism.Literal[formalism.Derived]{repo.Derived.GetOrCreateLiteral(true, qX)})
	require.NoError(t, err)
	second, err := repo.GetOrCreateAxiomSchema(vars,
		repo.Derived.GetOrCreateLiteral(false, qX), nil, nil,
		[]*formalism.Literal[formalism.Derived]{repo.Derived.GetOrCreateLiteral(false, pX)})
	require.NoError(t, err)

	a := repo.GetOrCreateObject("a")
	problem := repo.GetOrCreateProblem("unstratified", []*formalism.Object{a},
		[]*formalism.Predicate[formalism.Derived]{p, q},
		nil, nil, nil, nil, nil, nil, nil,
		[]*formalism.AxiomSchema{first, second}, nil)

	_, err = NewApplicableActionGenerator(repo, problem)
	assert.ErrorIs(t, err, formalism.ErrDomain)
	assert.Contains(t, err.Error(), "unstratified")
}

func TestStratifiedNegationAcrossStrata(t *testing.T) {
	repo := formalism.NewRepository()
	x := repo.GetOrCreateVariable("?x", 0)
	vars := []*formalism.Variable{x}

	marked, err := repo.Fluent.GetOrCreatePredicate("marked", vars)
	require.NoError(t, err)
	covered, err := repo.Derived.GetOrCreatePredicate("covered", vars)
	require.NoError(t, err)
	exposed, err := repo.Derived.GetOrCreatePredicate("exposed", vars)
	require.NoError(t, err)

	markedX := repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(marked, []formalism.Term{x}))
	coveredX := repo.Derived.GetOrCreateAtom(covered, []formalism.Term{x})
	exposedX := repo.Derived.GetOrCreateAtom(exposed, []formalism.Term{x})

	// covered(x) <- marked(x); exposed(x) <- not covered(x). Negation
	// across strata is fine: covered settles before exposed starts.
	lower, err := repo.GetOrCreateAxiomSchema(vars,
		repo.Derived.GetOrCreateLiteral(false, coveredX), nil,
		[]*formalism.Literal[formalism.Fluent]{markedX}, nil)
	require.NoError(t, err)
	upper, err := repo.GetOrCreateAxiomSchema(vars,
		repo.Derived.GetOrCreateLiteral(false, exposedX), nil, nil,
		[]*formalism.Literal[formalism.Derived]{repo.Derived.GetOrCreateLiteral(true, coveredX)})
	require.NoError(t, err)

	a := repo.GetOrCreateObject("a")
	b := repo.GetOrCreateObject("b")
	init := []*formalism.GroundLiteral[formalism.Fluent]{
		repo.Fluent.GetOrCreateGroundLiteral(false,
			repo.Fluent.GetOrCreateGroundAtom(marked, []*formalism.Object{a})),
	}
	problem := repo.GetOrCreateProblem("strata", []*formalism.Object{a, b},
		[]*formalism.Predicate[formalism.Derived]{covered, exposed},
		nil, init, nil, nil, nil, nil, nil,
		[]*formalism.AxiomSchema{lower, upper}, nil)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)
	assert.Equal(t, 2, generator.AxiomEvaluator().NumStrata())

	states := NewStateRepository(generator)
	initial, err := states.Initial()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"(covered a)", "(exposed b)"},
		derivedAtomNames(t, repo, initial))
}
