package search

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/emicklei/dot"
	"go.uber.org/zap"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// axiomGrounder holds the per-axiom grounding state: the body's condition
// grounder and the cache of built ground axioms.
type axiomGrounder struct {
	schema     *formalism.AxiomSchema
	conditions *ConditionGrounder
	cache      map[string]*GroundAxiom
}

// AxiomEvaluator forward-chains the problem's derived predicates to a
// fixed point. Axioms are partitioned into strata from the
// derived-predicate dependency graph, computed once at load; strata are
// evaluated in topological order, so a lower stratum is stable before a
// higher one begins. Within a stratum, the same lifted grounding
// machinery that serves actions enumerates applicable axiom instances
// until no new derived atom is produced.
type AxiomEvaluator struct {
	repo           *formalism.Repository
	problem        *formalism.Problem
	staticPositive *bitset.BitSet
	logger         *zap.Logger

	strata [][]*axiomGrounder
	axioms []*GroundAxiom

	// dependency edges for inspection: predicate index -> predicate index,
	// with polarity.
	edges []dependencyEdge
}

type dependencyEdge struct {
	from    Index
	to      Index
	negated bool
}

// newAxiomEvaluator stratifies the axiom set and builds one condition
// grounder per axiom. Unstratified rule sets (a negative edge inside a
// dependency cycle) are rejected with ErrDomain.
func newAxiomEvaluator(
	repo *formalism.Repository,
	problem *formalism.Problem,
	staticSet *AssignmentSet[formalism.Static],
	staticPositive *bitset.BitSet,
	logger *zap.Logger,
) (*AxiomEvaluator, error) {
	e := &AxiomEvaluator{
		repo:           repo,
		problem:        problem,
		staticPositive: staticPositive,
		logger:         logger,
	}

	strata, err := e.stratify()
	if err != nil {
		return nil, err
	}

	e.strata = make([][]*axiomGrounder, len(strata))
	for level, axioms := range strata {
		for _, schema := range axioms {
			conditions, err := NewConditionGrounder(
				repo, problem, schema.Parameters(),
				schema.StaticConditions(), schema.FluentConditions(), schema.DerivedConditions(),
				staticSet, staticPositive,
			)
			if err != nil {
				return nil, err
			}
			e.strata[level] = append(e.strata[level], &axiomGrounder{
				schema:     schema,
				conditions: conditions,
				cache:      make(map[string]*GroundAxiom),
			})
		}
	}

	if len(problem.Axioms()) > 0 {
		logger.Debug("axioms stratified",
			zap.Int("axioms", len(problem.Axioms())),
			zap.Int("strata", len(e.strata)))
	}
	return e, nil
}

// stratify assigns every axiom to a stratum. The dependency graph has one
// node per derived predicate and an edge from each body predicate to the
// head predicate, negative when the body literal is negated. Strongly
// connected components collapse mutually recursive predicates; a negative
// edge inside a component makes the set unstratified. The stratum of a
// component is the longest path reaching it in the condensation, so every
// dependency is fully evaluated before its dependents.
func (e *AxiomEvaluator) stratify() ([][]*formalism.AxiomSchema, error) {
	axioms := e.problem.Axioms()
	if len(axioms) == 0 {
		return nil, nil
	}

	numPredicates := e.repo.Derived.PredicateCount()
	adjacency := make([][]dependencyEdge, numPredicates)
	for _, axiom := range axioms {
		head := axiom.Head().Atom().Predicate().Index()
		for _, literal := range axiom.DerivedConditions() {
			edge := dependencyEdge{
				from:    literal.Atom().Predicate().Index(),
				to:      head,
				negated: literal.Negated(),
			}
			adjacency[edge.from] = append(adjacency[edge.from], edge)
			e.edges = append(e.edges, edge)
		}
	}

	components := tarjanComponents(numPredicates, adjacency)

	// A negative dependency within a component cannot be ordered.
	for _, edge := range e.edges {
		if edge.negated && components[edge.from] == components[edge.to] {
			from, _ := e.repo.Derived.PredicateByIndex(edge.from)
			to, _ := e.repo.Derived.PredicateByIndex(edge.to)
			return nil, fmt.Errorf("%w: axioms are unstratified: negative cycle through %s and %s",
				formalism.ErrDomain, from.Name(), to.Name())
		}
	}

	// Longest path over the condensation gives the stratum of each
	// component; processing predicates in reverse topological emission
	// order of Tarjan visits dependencies first.
	numComponents := 0
	for _, c := range components {
		if c+1 > numComponents {
			numComponents = c + 1
		}
	}
	level := make([]int, numComponents)
	// Tarjan emits components in reverse topological order: a component
	// is numbered before everything it depends on, which gets a higher id.
	// Iterating components from high ids to low ids therefore walks the
	// condensation in topological order.
	order := make([]int, 0, numPredicates)
	for p := 0; p < numPredicates; p++ {
		order = append(order, p)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return components[order[i]] > components[order[j]]
	})
	maxLevel := 0
	for _, p := range order {
		for _, edge := range adjacency[p] {
			if components[int(edge.from)] == components[int(edge.to)] {
				continue
			}
			next := level[components[int(edge.from)]] + 1
			if next > level[components[int(edge.to)]] {
				level[components[int(edge.to)]] = next
				if next > maxLevel {
					maxLevel = next
				}
			}
		}
	}

	strata := make([][]*formalism.AxiomSchema, maxLevel+1)
	for _, axiom := range axioms {
		head := axiom.Head().Atom().Predicate().Index()
		stratum := level[components[head]]
		strata[stratum] = append(strata[stratum], axiom)
	}
	return strata, nil
}

// tarjanComponents computes strongly connected components over predicate
// indices. Component ids are assigned in completion order (reverse
// topological order of the condensation).
func tarjanComponents(numNodes int, adjacency [][]dependencyEdge) []int {
	const unvisited = -1
	index := make([]int, numNodes)
	lowlink := make([]int, numNodes)
	onStack := make([]bool, numNodes)
	components := make([]int, numNodes)
	for i := range index {
		index[i] = unvisited
		components[i] = unvisited
	}

	next := 0
	numComponents := 0
	var stack []int

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, edge := range adjacency[v] {
			w := int(edge.to)
			if index[w] == unvisited {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				components[w] = numComponents
				if w == v {
					break
				}
			}
			numComponents++
		}
	}

	for v := 0; v < numNodes; v++ {
		if index[v] == unvisited {
			strongConnect(v)
		}
	}
	return components
}

// Evaluate computes the derived bitset of the given fluent state. After
// it returns, no axiom instance is applicable whose head atom is not
// already set.
func (e *AxiomEvaluator) Evaluate(fluent *bitset.BitSet) (*bitset.BitSet, error) {
	derived := bitset.New(0)
	if len(e.strata) == 0 {
		return derived, nil
	}

	fluentAtoms, err := atomsFromBits(&e.repo.Fluent, fluent)
	if err != nil {
		return nil, err
	}
	fluentSet := NewAssignmentSet(&e.repo.Fluent, e.repo.ObjectCount(), fluentAtoms)

	for _, stratum := range e.strata {
		for {
			derivedAtoms, err := atomsFromBits(&e.repo.Derived, derived)
			if err != nil {
				return nil, err
			}
			derivedSet := NewAssignmentSet(&e.repo.Derived, e.repo.ObjectCount(), derivedAtoms)

			changed := false
			for _, grounder := range stratum {
				bindings := grounder.conditions.Bindings(fluent, derived, fluentSet, derivedSet)
				for _, binding := range bindings {
					instance, err := e.ground(grounder, binding)
					if err != nil {
						return nil, err
					}
					if !derived.Test(uint(instance.headAtom)) {
						derived.Set(uint(instance.headAtom))
						changed = true
					}
				}
			}
			if !changed {
				break
			}
		}
	}
	return derived, nil
}

func (e *AxiomEvaluator) ground(grounder *axiomGrounder, binding formalism.Binding) (*GroundAxiom, error) {
	key := bindingKey(binding)
	if instance, ok := grounder.cache[key]; ok {
		return instance, nil
	}

	schema := grounder.schema
	precondition := compilePreconditionBits(e.repo, binding,
		schema.StaticConditions(), schema.FluentConditions(), schema.DerivedConditions())

	if !precondition.IsStaticallyApplicable(e.staticPositive) {
		return nil, fmt.Errorf("%w: axiom grounding %s is statically inconsistent; static consistency must be enforced at binding time",
			formalism.ErrDomain, formatGroundApplication(schema.Head().Atom().Predicate().Name(), binding, len(binding)))
	}

	head := formalism.GroundAtomUnderBinding(&e.repo.Derived, schema.Head().Atom(), binding)
	instance := &GroundAxiom{
		index:        Index(len(e.axioms)),
		schema:       schema,
		binding:      append(formalism.Binding(nil), binding...),
		precondition: precondition,
		headAtom:     head.Index(),
	}
	e.axioms = append(e.axioms, instance)
	grounder.cache[key] = instance
	return instance, nil
}

// NumStrata returns the number of strata.
func (e *AxiomEvaluator) NumStrata() int { return len(e.strata) }

// GroundAxiomCount returns the number of distinct axiom groundings built
// so far.
func (e *AxiomEvaluator) GroundAxiomCount() int { return len(e.axioms) }

// DependencyDOT renders the derived-predicate dependency graph in
// Graphviz form; negative dependencies are drawn dashed.
func (e *AxiomEvaluator) DependencyDOT() string {
	out := dot.NewGraph(dot.Directed)
	for _, predicate := range e.repo.Derived.Predicates() {
		out.Node(predicate.Name())
	}
	for _, edge := range e.edges {
		from, err := e.repo.Derived.PredicateByIndex(edge.from)
		if err != nil {
			continue
		}
		to, err := e.repo.Derived.PredicateByIndex(edge.to)
		if err != nil {
			continue
		}
		d := out.Edge(out.Node(from.Name()), out.Node(to.Name()))
		if edge.negated {
			d.Attr("style", "dashed")
		}
	}
	return out.String()
}
