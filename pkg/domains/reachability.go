package domains

import (
	"fmt"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Reachability builds a walk domain over a directed chain of size nodes
// with one shortcut edge. Reachability is a derived predicate closed
// under two axioms (a base case over the agent's position and a
// transitive step), so solving the instance exercises the stratified
// axiom evaluator on every state expansion.
func Reachability(size int) (*Instance, error) {
	if size < 3 {
		return nil, fmt.Errorf("%w: reachability needs at least 3 nodes, got %d", formalism.ErrDomain, size)
	}
	repo := formalism.NewRepository()

	edge, err := repo.Static.GetOrCreatePredicate("edge", params(repo, "?x", "?y"))
	if err != nil {
		return nil, err
	}
	at, err := repo.Fluent.GetOrCreatePredicate("at", params(repo, "?x"))
	if err != nil {
		return nil, err
	}
	reachable, err := repo.Derived.GetOrCreatePredicate("reachable", params(repo, "?x"))
	if err != nil {
		return nil, err
	}

	x := repo.GetOrCreateVariable("?x", 0)
	y := repo.GetOrCreateVariable("?y", 1)

	slit := func(p *formalism.Predicate[formalism.Static], args ...formalism.Term) *formalism.Literal[formalism.Static] {
		return repo.Static.GetOrCreateLiteral(false, repo.Static.GetOrCreateAtom(p, args))
	}
	flit := func(negated bool, args ...formalism.Term) *formalism.Literal[formalism.Fluent] {
		return repo.Fluent.GetOrCreateLiteral(negated, repo.Fluent.GetOrCreateAtom(at, args))
	}
	dlit := func(args ...formalism.Term) *formalism.Literal[formalism.Derived] {
		return repo.Derived.GetOrCreateLiteral(false, repo.Derived.GetOrCreateAtom(reachable, args))
	}

	walk := repo.GetOrCreateActionSchema("walk", 2, []*formalism.Variable{x, y},
		[]*formalism.Literal[formalism.Static]{slit(edge, x, y)},
		[]*formalism.Literal[formalism.Fluent]{flit(false, x)},
		nil,
		[]*formalism.SimpleEffect{
			repo.GetOrCreateSimpleEffect(flit(true, x)),
			repo.GetOrCreateSimpleEffect(flit(false, y)),
		},
		nil, nil, nil)

	// reachable(y) <- at(x), edge(x, y)
	base, err := repo.GetOrCreateAxiomSchema([]*formalism.Variable{x, y},
		dlit(y),
		[]*formalism.Literal[formalism.Static]{slit(edge, x, y)},
		[]*formalism.Literal[formalism.Fluent]{flit(false, x)},
		nil)
	if err != nil {
		return nil, err
	}
	// reachable(y) <- reachable(x), edge(x, y)
	step, err := repo.GetOrCreateAxiomSchema([]*formalism.Variable{x, y},
		dlit(y),
		[]*formalism.Literal[formalism.Static]{slit(edge, x, y)},
		nil,
		[]*formalism.Literal[formalism.Derived]{dlit(x)})
	if err != nil {
		return nil, err
	}

	nodes := make([]*formalism.Object, size)
	for i := range nodes {
		nodes[i] = repo.GetOrCreateObject(fmt.Sprintf("n%d", i+1))
	}

	sground := func(a, b *formalism.Object) *formalism.GroundLiteral[formalism.Static] {
		return repo.Static.GetOrCreateGroundLiteral(false, repo.Static.GetOrCreateGroundAtom(edge, []*formalism.Object{a, b}))
	}

	var staticInit []*formalism.GroundLiteral[formalism.Static]
	for i := 0; i+1 < size; i++ {
		staticInit = append(staticInit, sground(nodes[i], nodes[i+1]))
	}
	// One shortcut so the clique search sees branching.
	staticInit = append(staticInit, sground(nodes[1], nodes[size-1]))

	fluentInit := []*formalism.GroundLiteral[formalism.Fluent]{
		repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(at, []*formalism.Object{nodes[0]})),
	}

	// The agent must stand on the last node. The derived predicate is
	// recomputed on every expansion but deliberately kept out of the
	// goal: once the agent stands on the sink, nothing is reachable from
	// it any more.
	fluentGoal := []*formalism.GroundLiteral[formalism.Fluent]{
		repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(at, []*formalism.Object{nodes[size-1]})),
	}

	problem := repo.GetOrCreateProblem(
		fmt.Sprintf("reachability-%d", size),
		nodes,
		[]*formalism.Predicate[formalism.Derived]{reachable},
		staticInit, fluentInit, nil,
		nil, fluentGoal, nil,
		[]*formalism.ActionSchema{walk},
		[]*formalism.AxiomSchema{base, step},
		nil)

	return &Instance{Name: problem.Name(), Repository: repo, Problem: problem}, nil
}
