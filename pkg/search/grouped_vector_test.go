package search

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

type pair struct{ group, value int }

func groupedFromPairs(t *testing.T, items []pair, numGroups int) *IndexGroupedVector[pair] {
	t.Helper()
	v, err := NewIndexGroupedVector(items,
		func(prev, cur pair) bool { return prev.group != cur.group },
		func(p pair) int { return p.group },
		numGroups)
	if err != nil {
		t.Fatalf("NewIndexGroupedVector() error = %v", err)
	}
	return v
}

func TestIndexGroupedVectorSpecExample(t *testing.T) {
	// Input [(0,2),(0,2),(2,0),(2,3)] with four groups: g0 has two
	// elements, g1 is empty (skipped id), g2 has two, g3 is empty
	// (suffix).
	items := []pair{{0, 2}, {0, 2}, {2, 0}, {2, 3}}
	v := groupedFromPairs(t, items, 4)

	wantSizes := []int{2, 0, 2, 0}
	for g, want := range wantSizes {
		group, err := v.Group(g)
		if err != nil {
			t.Fatalf("Group(%d) error = %v", g, err)
		}
		if len(group) != want {
			t.Errorf("len(Group(%d)) = %d, want %d", g, len(group), want)
		}
		for _, item := range group {
			if item.group != g {
				t.Errorf("Group(%d) contains item of group %d", g, item.group)
			}
		}
	}

	// Concatenating all groups in order reproduces the input.
	var concat []pair
	v.Each(func(_ int, group []pair) { concat = append(concat, group...) })
	if diff := cmp.Diff(items, concat, cmp.AllowUnexported(pair{})); diff != "" {
		t.Errorf("concatenated groups mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexGroupedVectorEmpty(t *testing.T) {
	v := groupedFromPairs(t, nil, 3)
	if v.NumGroups() != 3 {
		t.Errorf("NumGroups() = %d, want 3", v.NumGroups())
	}
	for g := 0; g < 3; g++ {
		group, err := v.Group(g)
		if err != nil {
			t.Fatalf("Group(%d) error = %v", g, err)
		}
		if len(group) != 0 {
			t.Errorf("Group(%d) of empty vector has %d items", g, len(group))
		}
	}
}

func TestIndexGroupedVectorUnsortedInput(t *testing.T) {
	_, err := NewIndexGroupedVector([]pair{{2, 0}, {0, 1}},
		func(prev, cur pair) bool { return prev.group != cur.group },
		func(p pair) int { return p.group },
		4)
	if !errors.Is(err, formalism.ErrBinding) {
		t.Errorf("unsorted input: err = %v, want ErrBinding", err)
	}
}

func TestIndexGroupedVectorGroupIDOutOfBounds(t *testing.T) {
	_, err := NewIndexGroupedVector([]pair{{0, 0}, {5, 1}},
		func(prev, cur pair) bool { return prev.group != cur.group },
		func(p pair) int { return p.group },
		3)
	if !errors.Is(err, formalism.ErrBinding) {
		t.Errorf("group id past numGroups: err = %v, want ErrBinding", err)
	}
}

func TestIndexGroupedVectorGroupLookup(t *testing.T) {
	v := groupedFromPairs(t, []pair{{0, 1}}, 1)
	if _, err := v.Group(1); !errors.Is(err, formalism.ErrLookup) {
		t.Errorf("Group(1) of 1-group vector: err = %v, want ErrLookup", err)
	}
	if _, err := v.Group(-1); !errors.Is(err, formalism.ErrLookup) {
		t.Errorf("Group(-1): err = %v, want ErrLookup", err)
	}
}

func TestIndexGroupedVectorBuilder(t *testing.T) {
	var b IndexGroupedVectorBuilder[int]
	b.StartGroup()
	b.Add(10)
	b.Add(11)
	b.StartGroup()
	b.StartGroup()
	b.Add(30)
	v := b.Result()

	if v.NumGroups() != 3 {
		t.Fatalf("NumGroups() = %d, want 3", v.NumGroups())
	}
	wantGroups := [][]int{{10, 11}, {}, {30}}
	for g, want := range wantGroups {
		group, err := v.Group(g)
		if err != nil {
			t.Fatalf("Group(%d) error = %v", g, err)
		}
		if len(group) != len(want) {
			t.Fatalf("len(Group(%d)) = %d, want %d", g, len(group), len(want))
		}
		for i := range want {
			if group[i] != want[i] {
				t.Errorf("Group(%d)[%d] = %d, want %d", g, i, group[i], want[i])
			}
		}
	}
}

// The builder and the pre-sorted protocol agree on the same input.
func TestIndexGroupedVectorProtocolEquivalence(t *testing.T) {
	items := []pair{{0, 1}, {0, 2}, {1, 3}, {3, 4}}
	sorted := groupedFromPairs(t, items, 4)

	var b IndexGroupedVectorBuilder[pair]
	lastGroup := -1
	for _, item := range items {
		for lastGroup < item.group {
			b.StartGroup()
			lastGroup++
		}
		b.Add(item)
	}
	for lastGroup < 3 {
		b.StartGroup()
		lastGroup++
	}
	built := b.Result()

	if sorted.NumGroups() != built.NumGroups() {
		t.Fatalf("NumGroups: sorted %d, built %d", sorted.NumGroups(), built.NumGroups())
	}
	for g := 0; g < sorted.NumGroups(); g++ {
		a, err := sorted.Group(g)
		if err != nil {
			t.Fatal(err)
		}
		c, err := built.Group(g)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(a, c, cmp.AllowUnexported(pair{})); diff != "" {
			t.Errorf("group %d mismatch (-sorted +built):\n%s", g, diff)
		}
	}
}
