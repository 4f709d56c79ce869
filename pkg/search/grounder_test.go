package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

func TestGenerateMoveApplicable(t *testing.T) {
	f := newMoveFixture(t)

	generator, err := NewApplicableActionGenerator(f.repo, f.problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)

	initial, err := states.Initial()
	require.NoError(t, err)

	applicable, err := generator.Generate(initial)
	require.NoError(t, err)

	// State {at(a), clear(b), clear(c)}: only move(a,b) and move(a,c)
	// are applicable; the eq pruning kills x = y bindings.
	assert.ElementsMatch(t, []string{"(move a b)", "(move a c)"}, planStrings(applicable))

	for _, action := range applicable {
		assert.True(t, action.IsApplicable(initial), "%s must be applicable in the query state", action)
		assert.True(t, action.IsStaticallyApplicable(generator.StaticPositive()),
			"%s must be statically applicable", action)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	f := newMoveFixture(t)

	run := func() []string {
		generator, err := NewApplicableActionGenerator(f.repo, f.problem)
		require.NoError(t, err)
		states := NewStateRepository(generator)
		initial, err := states.Initial()
		require.NoError(t, err)
		applicable, err := generator.Generate(initial)
		require.NoError(t, err)
		return planStrings(applicable)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "the emission order must be reproducible across runs")
}

func TestGenerateEmitsEachBindingOnce(t *testing.T) {
	f := newMoveFixture(t)

	generator, err := NewApplicableActionGenerator(f.repo, f.problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)
	initial, err := states.Initial()
	require.NoError(t, err)

	applicable, err := generator.Generate(initial)
	require.NoError(t, err)

	seen := map[Index]bool{}
	for _, action := range applicable {
		assert.False(t, seen[action.Index()], "binding %s emitted twice", action)
		seen[action.Index()] = true
	}
}

// Completeness: brute-forcing all bindings finds exactly the enumerated
// set.
func TestGenerateMatchesBruteForce(t *testing.T) {
	f := newMoveFixture(t)

	generator, err := NewApplicableActionGenerator(f.repo, f.problem)
	require.NoError(t, err)
	states := NewStateRepository(generator)
	initial, err := states.Initial()
	require.NoError(t, err)

	applicable, err := generator.Generate(initial)
	require.NoError(t, err)

	var expected []string
	for _, x := range f.problem.Objects() {
		for _, y := range f.problem.Objects() {
			if x == y {
				continue // statically pruned by the eq literal
			}
			binding := formalism.Binding{x, y}
			action, err := generator.Ground(f.move, binding)
			require.NoError(t, err)
			if action.IsApplicable(initial) {
				expected = append(expected, action.String())
			}
		}
	}
	assert.ElementsMatch(t, expected, planStrings(applicable))
}

func TestGroundStaticallyInconsistentBinding(t *testing.T) {
	f := newMoveFixture(t)

	generator, err := NewApplicableActionGenerator(f.repo, f.problem)
	require.NoError(t, err)

	// move(a, a) violates the ¬eq(?x, ?y) static precondition; forcing
	// the grounding is a contract violation, not a quiet inapplicability.
	_, err = generator.Ground(f.move, formalism.Binding{f.a, f.a})
	assert.ErrorIs(t, err, formalism.ErrDomain)
}

func TestGroundActionCaching(t *testing.T) {
	f := newMoveFixture(t)

	generator, err := NewApplicableActionGenerator(f.repo, f.problem)
	require.NoError(t, err)

	first, err := generator.Ground(f.move, formalism.Binding{f.a, f.b})
	require.NoError(t, err)
	second, err := generator.Ground(f.move, formalism.Binding{f.a, f.b})
	require.NoError(t, err)
	assert.Same(t, first, second, "the same (schema, binding) pair must be built once")

	other, err := generator.Ground(f.move, formalism.Binding{f.a, f.c})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestNullarySchemaGrounding(t *testing.T) {
	repo := formalism.NewRepository()

	raining, err := repo.Fluent.GetOrCreatePredicate("raining", nil)
	require.NoError(t, err)
	wet, err := repo.Fluent.GetOrCreatePredicate("wet", nil)
	require.NoError(t, err)

	pre := repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(raining, nil))
	eff := repo.GetOrCreateSimpleEffect(
		repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(wet, nil)))

	getWet := repo.GetOrCreateActionSchema("get-wet", 0, nil, nil,
		[]*formalism.Literal[formalism.Fluent]{pre}, nil,
		[]*formalism.SimpleEffect{eff}, nil, nil, nil)

	rainingLit := repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(raining, nil))

	build := func(init []*formalism.GroundLiteral[formalism.Fluent], name string) []*GroundAction {
		problem := repo.GetOrCreateProblem(name, nil, nil, nil, init, nil, nil, nil, nil,
			[]*formalism.ActionSchema{getWet}, nil, nil)
		generator, err := NewApplicableActionGenerator(repo, problem)
		require.NoError(t, err)
		states := NewStateRepository(generator)
		initial, err := states.Initial()
		require.NoError(t, err)
		applicable, err := generator.Generate(initial)
		require.NoError(t, err)
		return applicable
	}

	assert.Len(t, build([]*formalism.GroundLiteral[formalism.Fluent]{rainingLit}, "rainy"), 1,
		"nullary action applicable when its nullary precondition holds")
	assert.Empty(t, build(nil, "dry"),
		"nullary action not applicable when the precondition fails")
}

// An action compiled to a wider arity reports its original arity in the
// plan string: only the first OriginalArity binding entries print.
func TestPlanStringUsesOriginalArity(t *testing.T) {
	repo := formalism.NewRepository()
	x := repo.GetOrCreateVariable("?x", 0)
	y := repo.GetOrCreateVariable("?y", 1)
	z := repo.GetOrCreateVariable("?z", 2)

	p, err := repo.Fluent.GetOrCreatePredicate("p", []*formalism.Variable{x})
	require.NoError(t, err)
	eff := repo.GetOrCreateSimpleEffect(
		repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(p, []formalism.Term{x})))

	compiled := repo.GetOrCreateActionSchema("push", 2, []*formalism.Variable{x, y, z},
		nil, nil, nil, []*formalism.SimpleEffect{eff}, nil, nil, nil)

	a := repo.GetOrCreateObject("a")
	b := repo.GetOrCreateObject("b")
	c := repo.GetOrCreateObject("c")
	problem := repo.GetOrCreateProblem("compiled", []*formalism.Object{a, b, c}, nil,
		nil, nil, nil, nil, nil, nil, []*formalism.ActionSchema{compiled}, nil, nil)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)

	action, err := generator.Ground(compiled, formalism.Binding{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, "(push a b)", action.PlanString())
	assert.Equal(t, "(push a b c)", action.String())
}

func TestNegativeInitialLiteralRejected(t *testing.T) {
	f := newMoveFixture(t)

	negated := f.repo.Fluent.GetOrCreateGroundLiteral(true,
		f.repo.Fluent.GetOrCreateGroundAtom(f.at, []*formalism.Object{f.c}))

	bad := f.repo.GetOrCreateProblem("move-bad",
		f.problem.Objects(), nil,
		f.problem.StaticInit(),
		append(append([]*formalism.GroundLiteral[formalism.Fluent]{}, f.problem.FluentInit()...), negated),
		nil, nil, f.problem.FluentGoal(), nil,
		f.problem.Actions(), nil, nil)

	_, err := NewApplicableActionGenerator(f.repo, bad)
	assert.ErrorIs(t, err, formalism.ErrDomain)
	assert.Contains(t, err.Error(), "initial state")
}

func TestGroundActionCost(t *testing.T) {
	repo := formalism.NewRepository()
	x := repo.GetOrCreateVariable("?x", 0)

	p, err := repo.Fluent.GetOrCreatePredicate("p", []*formalism.Variable{x})
	require.NoError(t, err)
	eff := repo.GetOrCreateSimpleEffect(
		repo.Fluent.GetOrCreateLiteral(false, repo.Fluent.GetOrCreateAtom(p, []formalism.Term{x})))

	weight, err := repo.GetOrCreateFunctionSkeleton("weight", []*formalism.Variable{x})
	require.NoError(t, err)
	cost := repo.GetOrCreateBinaryExpression(formalism.OpPlus,
		repo.GetOrCreateFunctionReference(repo.GetOrCreateFunction(weight, []formalism.Term{x})),
		repo.GetOrCreateNumberExpression(1))

	lift := repo.GetOrCreateActionSchema("lift", 1, []*formalism.Variable{x},
		nil, nil, nil, []*formalism.SimpleEffect{eff}, nil, nil, cost)

	a := repo.GetOrCreateObject("a")
	numeric := []*formalism.NumericFluent{
		repo.GetOrCreateNumericFluent(repo.GetOrCreateGroundFunction(weight, []*formalism.Object{a}), 4),
	}
	problem := repo.GetOrCreateProblem("weights", []*formalism.Object{a}, nil,
		nil, nil, numeric, nil, nil, nil, []*formalism.ActionSchema{lift}, nil, nil)

	generator, err := NewApplicableActionGenerator(repo, problem)
	require.NoError(t, err)

	action, err := generator.Ground(lift, formalism.Binding{a})
	require.NoError(t, err)
	assert.Equal(t, 5.0, action.Cost(), "cost = weight(a) + 1")
}
