package search

import (
	"strings"
	"testing"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

func TestStaticConsistencyGraphMoveFixture(t *testing.T) {
	f := newMoveFixture(t)

	staticAtoms := make([]*formalism.GroundAtom[formalism.Static], 0, len(f.problem.StaticInit()))
	for _, l := range f.problem.StaticInit() {
		staticAtoms = append(staticAtoms, l.Atom())
	}
	staticSet := NewAssignmentSet(&f.repo.Static, f.repo.ObjectCount(), staticAtoms)

	graph, err := NewStaticConsistencyGraph(f.problem.Objects(), 0, 2,
		f.move.StaticConditions(), staticSet)
	if err != nil {
		t.Fatalf("NewStaticConsistencyGraph() error = %v", err)
	}

	// The only static condition is the negated binary eq literal, which
	// no single vertex can refute: every (parameter, object) pair stays.
	if got, want := len(graph.Vertices()), 6; got != want {
		t.Fatalf("len(Vertices()) = %d, want %d", got, want)
	}
	if got, want := graph.NumParameters(), 2; got != want {
		t.Fatalf("NumParameters() = %d, want %d", got, want)
	}
	for p := 0; p < 2; p++ {
		partition, err := graph.Partition(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(partition) != 3 {
			t.Errorf("len(Partition(%d)) = %d, want 3", p, len(partition))
		}
		for _, id := range partition {
			if got := graph.Vertices()[id].ParameterIndex; got != uint32(p) {
				t.Errorf("vertex %d in partition %d has parameter %d", id, p, got)
			}
		}
	}

	// Edges: pairs of different parameters minus the three x = y pairs
	// refuted by eq. 3*3 - 3 = 6 consistent edges.
	if got, want := len(graph.Edges()), 6; got != want {
		t.Errorf("len(Edges()) = %d, want %d", got, want)
	}
	for _, e := range graph.Edges() {
		if e.Src.ParameterIndex == e.Dst.ParameterIndex {
			t.Errorf("edge within one partition: %v", e)
		}
		if e.Src.ObjectIndex == e.Dst.ObjectIndex {
			t.Errorf("eq-refuted edge survived: %v", e)
		}
	}
}

func TestStaticConsistencyGraphUnaryFilter(t *testing.T) {
	repo := formalism.NewRepository()
	x := repo.GetOrCreateVariable("?x", 0)

	big, err := repo.Static.GetOrCreatePredicate("big", []*formalism.Variable{x})
	if err != nil {
		t.Fatal(err)
	}
	a := repo.GetOrCreateObject("a")
	b := repo.GetOrCreateObject("b")
	repo.GetOrCreateObject("c")

	atoms := []*formalism.GroundAtom[formalism.Static]{
		repo.Static.GetOrCreateGroundAtom(big, []*formalism.Object{a}),
		repo.Static.GetOrCreateGroundAtom(big, []*formalism.Object{b}),
	}
	staticSet := NewAssignmentSet(&repo.Static, repo.ObjectCount(), atoms)

	bigX := repo.Static.GetOrCreateLiteral(false, repo.Static.GetOrCreateAtom(big, []formalism.Term{x}))

	graph, err := NewStaticConsistencyGraph(repo.Objects(), 0, 1,
		[]*formalism.Literal[formalism.Static]{bigX}, staticSet)
	if err != nil {
		t.Fatal(err)
	}

	// Only a and b pass the unary filter.
	if got, want := len(graph.Vertices()), 2; got != want {
		t.Fatalf("len(Vertices()) = %d, want %d", got, want)
	}
	for _, v := range graph.Vertices() {
		object, err := repo.ObjectByIndex(v.ObjectIndex)
		if err != nil {
			t.Fatal(err)
		}
		if object.Name() == "c" {
			t.Error("object c must be filtered out")
		}
	}
}

func TestConsistencyGraphDOT(t *testing.T) {
	f := newMoveFixture(t)

	staticAtoms := make([]*formalism.GroundAtom[formalism.Static], 0, len(f.problem.StaticInit()))
	for _, l := range f.problem.StaticInit() {
		staticAtoms = append(staticAtoms, l.Atom())
	}
	staticSet := NewAssignmentSet(&f.repo.Static, f.repo.ObjectCount(), staticAtoms)

	graph, err := NewStaticConsistencyGraph(f.problem.Objects(), 0, 2,
		f.move.StaticConditions(), staticSet)
	if err != nil {
		t.Fatal(err)
	}

	rendered, err := graph.DOT(f.repo)
	if err != nil {
		t.Fatalf("DOT() error = %v", err)
	}
	for _, fragment := range []string{"graph", "#0 <- a", "#1 <- c", "--"} {
		if !strings.Contains(rendered, fragment) {
			t.Errorf("DOT output missing %q:\n%s", fragment, rendered)
		}
	}
}
