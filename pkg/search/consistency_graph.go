package search

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Vertex is a candidate (parameter, object) binding in a consistency
// graph. ID is the vertex's position in the owning graph's vertex array.
type Vertex struct {
	ID             int
	ParameterIndex uint32
	ObjectIndex    Index
}

// Edge joins two vertices of different parameters whose joint assignment
// is consistent with the binary conditions.
type Edge struct {
	Src Vertex
	Dst Vertex
}

// StaticConsistencyGraph is the k-partite graph of parameter-object pairs
// consistent with a schema's static conditions, computed once per schema.
// Partitions group vertex ids by parameter; a clique that picks one
// vertex per partition is a candidate binding.
//
// The parameter range [begin, end) lets the same construction serve an
// action's precondition parameters and a universal effect's quantified
// parameters, whose ordinals continue the action's numbering.
type StaticConsistencyGraph struct {
	beginParameter uint32
	endParameter   uint32
	vertices       []Vertex
	edges          []Edge
	partitions     *IndexGroupedVector[int]
}

// NewStaticConsistencyGraph builds the graph over the given object
// universe for parameters [beginParameter, endParameter), keeping the
// vertices consistent with all unary static conditions and the edges
// consistent with all binary static conditions.
func NewStaticConsistencyGraph(
	objects []*formalism.Object,
	beginParameter, endParameter uint32,
	staticConditions []*formalism.Literal[formalism.Static],
	staticSet *AssignmentSet[formalism.Static],
) (*StaticConsistencyGraph, error) {
	g := &StaticConsistencyGraph{beginParameter: beginParameter, endParameter: endParameter}

	// Vertices, partitioned by parameter.
	var partitions IndexGroupedVectorBuilder[int]
	for parameter := beginParameter; parameter < endParameter; parameter++ {
		partitions.StartGroup()
		for _, object := range objects {
			v := Vertex{ID: len(g.vertices), ParameterIndex: parameter, ObjectIndex: object.Index()}
			if staticSet.VertexConsistent(staticConditions, v) {
				partitions.Add(v.ID)
				g.vertices = append(g.vertices, v)
			}
		}
	}
	g.partitions = partitions.Result()

	// Edges between vertices of different parameters.
	for first := 0; first < len(g.vertices); first++ {
		for second := first + 1; second < len(g.vertices); second++ {
			src := g.vertices[first]
			dst := g.vertices[second]
			if src.ParameterIndex == dst.ParameterIndex {
				continue
			}
			e := Edge{Src: src, Dst: dst}
			if staticSet.EdgeConsistent(staticConditions, e) {
				g.edges = append(g.edges, e)
			}
		}
	}

	return g, nil
}

// Vertices returns the vertex array. The returned slice must not be
// mutated.
func (g *StaticConsistencyGraph) Vertices() []Vertex { return g.vertices }

// Edges returns the statically consistent edges. The returned slice must
// not be mutated.
func (g *StaticConsistencyGraph) Edges() []Edge { return g.edges }

// NumParameters returns the number of partitions.
func (g *StaticConsistencyGraph) NumParameters() int {
	return int(g.endParameter - g.beginParameter)
}

// Partition returns the vertex ids of the given parameter (relative to
// the graph's begin parameter).
func (g *StaticConsistencyGraph) Partition(parameter int) ([]int, error) {
	return g.partitions.Group(parameter)
}

// Partitions returns the vertex ids of every parameter in order.
func (g *StaticConsistencyGraph) Partitions() [][]int {
	out := make([][]int, 0, g.partitions.NumGroups())
	g.partitions.Each(func(_ int, ids []int) {
		out = append(out, ids)
	})
	return out
}

// DOT renders the graph in Graphviz form; vertex labels show the
// parameter ordinal and the bound object's name, resolved through the
// repository.
func (g *StaticConsistencyGraph) DOT(repo *formalism.Repository) (string, error) {
	out := dot.NewGraph(dot.Undirected)
	for _, v := range g.vertices {
		object, err := repo.ObjectByIndex(v.ObjectIndex)
		if err != nil {
			return "", err
		}
		node := out.Node(strconv.Itoa(v.ID))
		node.Attr("label", fmt.Sprintf("#%d <- %s", v.ParameterIndex, object.Name()))
	}
	for _, e := range g.edges {
		out.Edge(out.Node(strconv.Itoa(e.Src.ID)), out.Node(strconv.Itoa(e.Dst.ID)))
	}
	return out.String(), nil
}
