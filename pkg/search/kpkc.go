package search

import "github.com/bits-and-blooms/bitset"

// findAllKCliquesInKPartiteGraph enumerates every clique of size k in a
// k-partite graph, where k is the number of partitions and a clique picks
// exactly one vertex per partition. The adjacency matrix is given as one
// bitset row per vertex; partitions list vertex ids in ascending order.
//
// The recursion walks partitions in order and candidates within a
// partition in ascending vertex id, so cliques are emitted in
// lexicographic vertex-id order — the source of the grounder's
// determinism guarantee. The candidate set is narrowed by intersecting
// adjacency rows, which keeps the search cheap on the sparse graphs the
// grounder produces.
//
// The clique slice passed to emit is reused between calls; callers copy
// it if they keep it.
func findAllKCliquesInKPartiteGraph(
	adjacency []*bitset.BitSet,
	partitions [][]int,
	emit func(clique []int),
) {
	if len(partitions) == 0 {
		return
	}
	clique := make([]int, 0, len(partitions))

	var recurse func(partition int, allowed *bitset.BitSet)
	recurse = func(partition int, allowed *bitset.BitSet) {
		if partition == len(partitions) {
			emit(clique)
			return
		}
		for _, id := range partitions[partition] {
			if allowed != nil && !allowed.Test(uint(id)) {
				continue
			}
			next := adjacency[id]
			if allowed != nil {
				next = allowed.Intersection(adjacency[id])
			}
			clique = append(clique, id)
			recurse(partition+1, next)
			clique = clique[:len(clique)-1]
		}
	}
	recurse(0, nil)
}
