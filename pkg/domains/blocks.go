package domains

import (
	"fmt"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Blocks builds the four-operator blocks world with size blocks. All
// blocks start clear on the table; the goal is the single tower
// b1 on b2 on ... on bN.
func Blocks(size int) (*Instance, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: blocks needs at least 2 blocks, got %d", formalism.ErrDomain, size)
	}
	repo := formalism.NewRepository()

	x := repo.GetOrCreateVariable("?x", 0)
	y := repo.GetOrCreateVariable("?y", 1)

	on, err := repo.Fluent.GetOrCreatePredicate("on", params(repo, "?x", "?y"))
	if err != nil {
		return nil, err
	}
	ontable, err := repo.Fluent.GetOrCreatePredicate("ontable", params(repo, "?x"))
	if err != nil {
		return nil, err
	}
	clear, err := repo.Fluent.GetOrCreatePredicate("clear", params(repo, "?x"))
	if err != nil {
		return nil, err
	}
	holding, err := repo.Fluent.GetOrCreatePredicate("holding", params(repo, "?x"))
	if err != nil {
		return nil, err
	}
	handempty, err := repo.Fluent.GetOrCreatePredicate("handempty", nil)
	if err != nil {
		return nil, err
	}

	lit := func(negated bool, p *formalism.Predicate[formalism.Fluent], args ...formalism.Term) *formalism.Literal[formalism.Fluent] {
		return repo.Fluent.GetOrCreateLiteral(negated, repo.Fluent.GetOrCreateAtom(p, args))
	}
	eff := func(negated bool, p *formalism.Predicate[formalism.Fluent], args ...formalism.Term) *formalism.SimpleEffect {
		return repo.GetOrCreateSimpleEffect(lit(negated, p, args...))
	}

	pickup := repo.GetOrCreateActionSchema("pick-up", 1, []*formalism.Variable{x},
		nil,
		[]*formalism.Literal[formalism.Fluent]{
			lit(false, clear, x), lit(false, ontable, x), lit(false, handempty),
		},
		nil,
		[]*formalism.SimpleEffect{
			eff(true, ontable, x), eff(true, clear, x), eff(true, handempty), eff(false, holding, x),
		},
		nil, nil, nil)

	putdown := repo.GetOrCreateActionSchema("put-down", 1, []*formalism.Variable{x},
		nil,
		[]*formalism.Literal[formalism.Fluent]{lit(false, holding, x)},
		nil,
		[]*formalism.SimpleEffect{
			eff(true, holding, x), eff(false, clear, x), eff(false, handempty), eff(false, ontable, x),
		},
		nil, nil, nil)

	stack := repo.GetOrCreateActionSchema("stack", 2, []*formalism.Variable{x, y},
		nil,
		[]*formalism.Literal[formalism.Fluent]{lit(false, holding, x), lit(false, clear, y)},
		nil,
		[]*formalism.SimpleEffect{
			eff(true, holding, x), eff(true, clear, y),
			eff(false, clear, x), eff(false, handempty), eff(false, on, x, y),
		},
		nil, nil, nil)

	unstack := repo.GetOrCreateActionSchema("unstack", 2, []*formalism.Variable{x, y},
		nil,
		[]*formalism.Literal[formalism.Fluent]{
			lit(false, on, x, y), lit(false, clear, x), lit(false, handempty),
		},
		nil,
		[]*formalism.SimpleEffect{
			eff(false, holding, x), eff(false, clear, y),
			eff(true, clear, x), eff(true, handempty), eff(true, on, x, y),
		},
		nil, nil, nil)

	blocks := make([]*formalism.Object, size)
	for i := range blocks {
		blocks[i] = repo.GetOrCreateObject(fmt.Sprintf("b%d", i+1))
	}

	groundFluent := func(p *formalism.Predicate[formalism.Fluent], objs ...*formalism.Object) *formalism.GroundLiteral[formalism.Fluent] {
		return repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(p, objs))
	}

	var init []*formalism.GroundLiteral[formalism.Fluent]
	init = append(init, groundFluent(handempty))
	for _, b := range blocks {
		init = append(init, groundFluent(ontable, b), groundFluent(clear, b))
	}

	var goal []*formalism.GroundLiteral[formalism.Fluent]
	for i := 0; i+1 < size; i++ {
		goal = append(goal, groundFluent(on, blocks[i], blocks[i+1]))
	}

	problem := repo.GetOrCreateProblem(
		fmt.Sprintf("blocks-%d", size),
		blocks, nil,
		nil, init, nil,
		nil, goal, nil,
		[]*formalism.ActionSchema{pickup, putdown, stack, unstack},
		nil, nil)

	return &Instance{Name: problem.Name(), Repository: repo, Problem: problem}, nil
}
