package domains

import (
	"fmt"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Gripper builds the classic two-room gripper domain with size balls.
// Room, ball, and gripper are static predicates, so binding pruning runs
// through the static consistency graph; move carries a numeric cost read
// from a ground function.
func Gripper(size int) (*Instance, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: gripper needs at least 1 ball, got %d", formalism.ErrDomain, size)
	}
	repo := formalism.NewRepository()

	room, err := repo.Static.GetOrCreatePredicate("room", params(repo, "?r"))
	if err != nil {
		return nil, err
	}
	ball, err := repo.Static.GetOrCreatePredicate("ball", params(repo, "?b"))
	if err != nil {
		return nil, err
	}
	gripper, err := repo.Static.GetOrCreatePredicate("gripper", params(repo, "?g"))
	if err != nil {
		return nil, err
	}
	atRobby, err := repo.Fluent.GetOrCreatePredicate("at-robby", params(repo, "?r"))
	if err != nil {
		return nil, err
	}
	at, err := repo.Fluent.GetOrCreatePredicate("at", params(repo, "?b", "?r"))
	if err != nil {
		return nil, err
	}
	free, err := repo.Fluent.GetOrCreatePredicate("free", params(repo, "?g"))
	if err != nil {
		return nil, err
	}
	carry, err := repo.Fluent.GetOrCreatePredicate("carry", params(repo, "?b", "?g"))
	if err != nil {
		return nil, err
	}

	slit := func(p *formalism.Predicate[formalism.Static], args ...formalism.Term) *formalism.Literal[formalism.Static] {
		return repo.Static.GetOrCreateLiteral(false, repo.Static.GetOrCreateAtom(p, args))
	}
	flit := func(negated bool, p *formalism.Predicate[formalism.Fluent], args ...formalism.Term) *formalism.Literal[formalism.Fluent] {
		return repo.Fluent.GetOrCreateLiteral(negated, repo.Fluent.GetOrCreateAtom(p, args))
	}
	eff := func(negated bool, p *formalism.Predicate[formalism.Fluent], args ...formalism.Term) *formalism.SimpleEffect {
		return repo.GetOrCreateSimpleEffect(flit(negated, p, args...))
	}

	// move pays a cost read from the move-cost ground function; pick and
	// drop stay at unit cost.
	moveCost, err := repo.GetOrCreateFunctionSkeleton("move-cost", nil)
	if err != nil {
		return nil, err
	}
	moveCostRef := repo.GetOrCreateFunctionReference(repo.GetOrCreateFunction(moveCost, nil))

	from := repo.GetOrCreateVariable("?from", 0)
	to := repo.GetOrCreateVariable("?to", 1)
	move := repo.GetOrCreateActionSchema("move", 2, []*formalism.Variable{from, to},
		[]*formalism.Literal[formalism.Static]{slit(room, from), slit(room, to)},
		[]*formalism.Literal[formalism.Fluent]{flit(false, atRobby, from)},
		nil,
		[]*formalism.SimpleEffect{eff(true, atRobby, from), eff(false, atRobby, to)},
		nil, nil, moveCostRef)

	b := repo.GetOrCreateVariable("?b", 0)
	r := repo.GetOrCreateVariable("?r", 1)
	g := repo.GetOrCreateVariable("?g", 2)
	pick := repo.GetOrCreateActionSchema("pick", 3, []*formalism.Variable{b, r, g},
		[]*formalism.Literal[formalism.Static]{slit(ball, b), slit(room, r), slit(gripper, g)},
		[]*formalism.Literal[formalism.Fluent]{
			flit(false, at, b, r), flit(false, atRobby, r), flit(false, free, g),
		},
		nil,
		[]*formalism.SimpleEffect{eff(false, carry, b, g), eff(true, at, b, r), eff(true, free, g)},
		nil, nil, nil)

	drop := repo.GetOrCreateActionSchema("drop", 3, []*formalism.Variable{b, r, g},
		[]*formalism.Literal[formalism.Static]{slit(ball, b), slit(room, r), slit(gripper, g)},
		[]*formalism.Literal[formalism.Fluent]{
			flit(false, carry, b, g), flit(false, atRobby, r),
		},
		nil,
		[]*formalism.SimpleEffect{eff(false, at, b, r), eff(false, free, g), eff(true, carry, b, g)},
		nil, nil, nil)

	roomA := repo.GetOrCreateObject("rooma")
	roomB := repo.GetOrCreateObject("roomb")
	left := repo.GetOrCreateObject("left")
	right := repo.GetOrCreateObject("right")
	balls := make([]*formalism.Object, size)
	for i := range balls {
		balls[i] = repo.GetOrCreateObject(fmt.Sprintf("ball%d", i+1))
	}

	sground := func(p *formalism.Predicate[formalism.Static], objs ...*formalism.Object) *formalism.GroundLiteral[formalism.Static] {
		return repo.Static.GetOrCreateGroundLiteral(false, repo.Static.GetOrCreateGroundAtom(p, objs))
	}
	fground := func(p *formalism.Predicate[formalism.Fluent], objs ...*formalism.Object) *formalism.GroundLiteral[formalism.Fluent] {
		return repo.Fluent.GetOrCreateGroundLiteral(false, repo.Fluent.GetOrCreateGroundAtom(p, objs))
	}

	staticInit := []*formalism.GroundLiteral[formalism.Static]{
		sground(room, roomA), sground(room, roomB),
		sground(gripper, left), sground(gripper, right),
	}
	for _, o := range balls {
		staticInit = append(staticInit, sground(ball, o))
	}

	fluentInit := []*formalism.GroundLiteral[formalism.Fluent]{
		fground(atRobby, roomA), fground(free, left), fground(free, right),
	}
	for _, o := range balls {
		fluentInit = append(fluentInit, fground(at, o, roomA))
	}

	numeric := []*formalism.NumericFluent{
		repo.GetOrCreateNumericFluent(repo.GetOrCreateGroundFunction(moveCost, nil), 2),
	}

	var goal []*formalism.GroundLiteral[formalism.Fluent]
	for _, o := range balls {
		goal = append(goal, fground(at, o, roomB))
	}

	objects := append([]*formalism.Object{roomA, roomB, left, right}, balls...)
	problem := repo.GetOrCreateProblem(
		fmt.Sprintf("gripper-%d", size),
		objects, nil,
		staticInit, fluentInit, numeric,
		nil, goal, nil,
		[]*formalism.ActionSchema{move, pick, drop},
		nil, nil)

	return &Instance{Name: problem.Name(), Repository: repo, Problem: problem}, nil
}
