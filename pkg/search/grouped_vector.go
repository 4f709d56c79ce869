package search

import (
	"fmt"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// IndexGroupedVector stores items contiguously, partitioned by a group
// key, with O(1) access to each group as a sub-slice. Group g occupies
// items[groupsBegin[g]:groupsBegin[g+1]]; skipped group ids get empty
// slices, as do suffix groups past the last populated one.
//
// Example: input [(0,2),(0,2),(2,0),(2,3)] with group retriever = first
// coordinate and numGroups = 4 yields groups [2 items, empty, 2 items,
// empty].
type IndexGroupedVector[T any] struct {
	items       []T
	groupsBegin []int
}

// NewIndexGroupedVector groups a pre-sorted vector. boundary reports
// whether two adjacent items belong to different groups; groupIndex
// retrieves an item's group id, used to emit empty slices for skipped
// ids. Input that is not sorted by group id, or a group id of numGroups
// or more, is rejected with an error wrapping formalism.ErrBinding.
func NewIndexGroupedVector[T any](
	items []T,
	boundary func(prev, cur T) bool,
	groupIndex func(T) int,
	numGroups int,
) (*IndexGroupedVector[T], error) {
	groupsBegin := make([]int, 0, numGroups+1)

	if len(items) > 0 {
		// Begin offsets for skipped groups plus the first group.
		for len(groupsBegin) <= groupIndex(items[0]) {
			if len(groupsBegin) > numGroups {
				return nil, fmt.Errorf("%w: group id %d out of bounds (num groups %d)", formalism.ErrBinding, groupIndex(items[0]), numGroups)
			}
			groupsBegin = append(groupsBegin, 0)
		}

		for i := 1; i < len(items); i++ {
			curGroup := len(groupsBegin) - 1
			if curGroup > groupIndex(items[i]) {
				return nil, fmt.Errorf("%w: got element of finished group %d; input not sorted by group id", formalism.ErrBinding, groupIndex(items[i]))
			}
			if boundary(items[i-1], items[i]) {
				// Begin offsets for skipped groups plus the new group.
				for len(groupsBegin) <= groupIndex(items[i]) {
					if len(groupsBegin) > numGroups {
						return nil, fmt.Errorf("%w: group id %d out of bounds (num groups %d)", formalism.ErrBinding, groupIndex(items[i]), numGroups)
					}
					groupsBegin = append(groupsBegin, i)
				}
			}
		}
	}

	if len(groupsBegin) > numGroups {
		return nil, fmt.Errorf("%w: ran out of bounds during grouping", formalism.ErrBinding)
	}
	// Begin offsets for remaining empty groups plus the end sentinel.
	for len(groupsBegin) <= numGroups {
		groupsBegin = append(groupsBegin, len(items))
	}

	return &IndexGroupedVector[T]{items: items, groupsBegin: groupsBegin}, nil
}

// NumGroups returns the number of groups.
func (v *IndexGroupedVector[T]) NumGroups() int { return len(v.groupsBegin) - 1 }

// Group returns the sub-slice of group g in O(1). Requesting a group id
// past the end yields an error wrapping formalism.ErrLookup. The returned
// slice aliases the underlying storage and must not be appended to.
func (v *IndexGroupedVector[T]) Group(g int) ([]T, error) {
	if g < 0 || g >= v.NumGroups() {
		return nil, fmt.Errorf("%w: group %d out of range (num groups %d)", formalism.ErrLookup, g, v.NumGroups())
	}
	return v.items[v.groupsBegin[g]:v.groupsBegin[g+1]], nil
}

// Each calls fn for every group in group-index order, including empty
// groups.
func (v *IndexGroupedVector[T]) Each(fn func(group int, items []T)) {
	for g := 0; g < v.NumGroups(); g++ {
		fn(g, v.items[v.groupsBegin[g]:v.groupsBegin[g+1]])
	}
}

// Items returns the underlying storage in group order.
func (v *IndexGroupedVector[T]) Items() []T { return v.items }

// IndexGroupedVectorBuilder constructs an IndexGroupedVector
// incrementally: StartGroup closes the previous group and opens a new
// one, Add appends to the open group.
type IndexGroupedVectorBuilder[T any] struct {
	items       []T
	groupsBegin []int
}

// StartGroup opens a new group and returns its begin offset.
func (b *IndexGroupedVectorBuilder[T]) StartGroup() int {
	b.groupsBegin = append(b.groupsBegin, len(b.items))
	return len(b.items)
}

// Add appends an element to the currently open group.
func (b *IndexGroupedVectorBuilder[T]) Add(item T) {
	b.items = append(b.items, item)
}

// Result seals the builder and returns the grouped vector. The builder
// must not be reused afterwards.
func (b *IndexGroupedVectorBuilder[T]) Result() *IndexGroupedVector[T] {
	b.groupsBegin = append(b.groupsBegin, len(b.items))
	return &IndexGroupedVector[T]{items: b.items, groupsBegin: b.groupsBegin}
}
