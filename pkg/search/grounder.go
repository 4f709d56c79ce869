package search

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	lru "github.com/hashicorp/golang-lru/v2"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// defaultApplicableCacheSize bounds the per-state applicable-action list
// cache. Lists evicted under memory pressure are regenerated
// deterministically.
const defaultApplicableCacheSize = 4096

// ConditionGrounder enumerates, for one parameterized condition
// (an action precondition or an axiom body), every binding that holds in
// a state. It owns the schema's static consistency graph and overlays the
// per-state fluent and derived assignment sets onto it.
type ConditionGrounder struct {
	repo              *formalism.Repository
	variables         []*formalism.Variable
	staticConditions  []*formalism.Literal[formalism.Static]
	fluentConditions  []*formalism.Literal[formalism.Fluent]
	derivedConditions []*formalism.Literal[formalism.Derived]
	staticPositive    *bitset.BitSet
	graph             *StaticConsistencyGraph
}

// NewConditionGrounder builds a grounder for the given parameter list and
// pre-partitioned conditions. Negative initial literals in the problem
// are rejected with ErrDomain.
func NewConditionGrounder(
	repo *formalism.Repository,
	problem *formalism.Problem,
	variables []*formalism.Variable,
	staticConditions []*formalism.Literal[formalism.Static],
	fluentConditions []*formalism.Literal[formalism.Fluent],
	derivedConditions []*formalism.Literal[formalism.Derived],
	staticSet *AssignmentSet[formalism.Static],
	staticPositive *bitset.BitSet,
) (*ConditionGrounder, error) {
	for _, literal := range problem.StaticInit() {
		if literal.Negated() {
			return nil, fmt.Errorf("%w: negative static literal %s in the initial state", formalism.ErrDomain, literal)
		}
	}
	for _, literal := range problem.FluentInit() {
		if literal.Negated() {
			return nil, fmt.Errorf("%w: negative fluent literal %s in the initial state", formalism.ErrDomain, literal)
		}
	}

	graph, err := NewStaticConsistencyGraph(problem.Objects(), 0, uint32(len(variables)), staticConditions, staticSet)
	if err != nil {
		return nil, err
	}
	return &ConditionGrounder{
		repo:              repo,
		variables:         variables,
		staticConditions:  staticConditions,
		fluentConditions:  fluentConditions,
		derivedConditions: derivedConditions,
		staticPositive:    staticPositive,
		graph:             graph,
	}, nil
}

// Graph returns the schema's static consistency graph.
func (g *ConditionGrounder) Graph() *StaticConsistencyGraph { return g.graph }

// Bindings returns every binding under which the condition holds in the
// state described by the fluent and derived bitsets. Bindings are emitted
// in lexicographic vertex-id order, so the result is deterministic across
// runs.
func (g *ConditionGrounder) Bindings(
	fluent, derived *bitset.BitSet,
	fluentSet *AssignmentSet[formalism.Fluent],
	derivedSet *AssignmentSet[formalism.Derived],
) []formalism.Binding {
	if !g.nullaryConditionsHold(fluent, derived) {
		return nil
	}
	switch len(g.variables) {
	case 0:
		return g.nullaryCase(fluent, derived)
	case 1:
		return g.unaryCase(fluent, derived, fluentSet, derivedSet)
	default:
		return g.generalCase(fluent, derived, fluentSet, derivedSet)
	}
}

// nullaryConditionsHold tests the fully ground (arity 0) fluent and
// derived literals before any binding work is spent.
func (g *ConditionGrounder) nullaryConditionsHold(fluent, derived *bitset.BitSet) bool {
	for _, literal := range g.fluentConditions {
		if literal.Atom().Arity() != 0 {
			continue
		}
		atom := formalism.GroundAtomUnderBinding(&g.repo.Fluent, literal.Atom(), nil)
		if fluent.Test(uint(atom.Index())) == literal.Negated() {
			return false
		}
	}
	for _, literal := range g.derivedConditions {
		if literal.Atom().Arity() != 0 {
			continue
		}
		atom := formalism.GroundAtomUnderBinding(&g.repo.Derived, literal.Atom(), nil)
		if derived.Test(uint(atom.Index())) == literal.Negated() {
			return false
		}
	}
	return true
}

func (g *ConditionGrounder) nullaryCase(fluent, derived *bitset.BitSet) []formalism.Binding {
	binding := formalism.Binding{}
	if g.isValidBinding(fluent, derived, binding) {
		return []formalism.Binding{binding}
	}
	return nil
}

func (g *ConditionGrounder) unaryCase(
	fluent, derived *bitset.BitSet,
	fluentSet *AssignmentSet[formalism.Fluent],
	derivedSet *AssignmentSet[formalism.Derived],
) []formalism.Binding {
	var bindings []formalism.Binding
	for _, vertex := range g.graph.Vertices() {
		if !fluentSet.VertexConsistent(g.fluentConditions, vertex) ||
			!derivedSet.VertexConsistent(g.derivedConditions, vertex) {
			continue
		}
		object, err := g.repo.ObjectByIndex(vertex.ObjectIndex)
		if err != nil {
			continue
		}
		binding := formalism.Binding{object}
		if g.isValidBinding(fluent, derived, binding) {
			bindings = append(bindings, binding)
		}
	}
	return bindings
}

func (g *ConditionGrounder) generalCase(
	fluent, derived *bitset.BitSet,
	fluentSet *AssignmentSet[formalism.Fluent],
	derivedSet *AssignmentSet[formalism.Derived],
) []formalism.Binding {
	if len(g.graph.Edges()) == 0 {
		return nil
	}
	vertices := g.graph.Vertices()

	// Restrict the statically consistent edges by the assignments in the
	// current state; the survivors form the adjacency matrix for the
	// clique search.
	adjacency := make([]*bitset.BitSet, len(vertices))
	for i := range adjacency {
		adjacency[i] = bitset.New(uint(len(vertices)))
	}
	for _, edge := range g.graph.Edges() {
		if fluentSet.EdgeConsistent(g.fluentConditions, edge) &&
			derivedSet.EdgeConsistent(g.derivedConditions, edge) {
			adjacency[edge.Src.ID].Set(uint(edge.Dst.ID))
			adjacency[edge.Dst.ID].Set(uint(edge.Src.ID))
		}
	}

	// The graph is sparse: few objects per parameter survive, so the
	// number of maximum-size cliques stays small.
	var bindings []formalism.Binding
	findAllKCliquesInKPartiteGraph(adjacency, g.graph.Partitions(), func(clique []int) {
		binding := make(formalism.Binding, len(clique))
		for _, id := range clique {
			vertex := vertices[id]
			object, err := g.repo.ObjectByIndex(vertex.ObjectIndex)
			if err != nil {
				return
			}
			binding[vertex.ParameterIndex] = object
		}
		if g.isValidBinding(fluent, derived, binding) {
			bindings = append(bindings, binding)
		}
	})
	return bindings
}

// isValidBinding grounds all three condition kinds under the binding and
// tests them; the assignment sets over-approximate, so the final check is
// always required.
func (g *ConditionGrounder) isValidBinding(fluent, derived *bitset.BitSet, binding formalism.Binding) bool {
	for _, literal := range g.staticConditions {
		ground := formalism.GroundLiteralUnderBinding(&g.repo.Static, literal, binding)
		if g.staticPositive.Test(uint(ground.Atom().Index())) == ground.Negated() {
			return false
		}
	}
	for _, literal := range g.fluentConditions {
		ground := formalism.GroundLiteralUnderBinding(&g.repo.Fluent, literal, binding)
		if fluent.Test(uint(ground.Atom().Index())) == ground.Negated() {
			return false
		}
	}
	for _, literal := range g.derivedConditions {
		ground := formalism.GroundLiteralUnderBinding(&g.repo.Derived, literal, binding)
		if derived.Test(uint(ground.Atom().Index())) == ground.Negated() {
			return false
		}
	}
	return true
}

// actionGrounder holds the per-schema grounding state: the schema's
// condition grounder, the pre-enumerated statically consistent suffixes
// of each universal effect, and the cache of built ground actions.
type actionGrounder struct {
	schema     *formalism.ActionSchema
	conditions *ConditionGrounder

	// universalSuffixes[i] lists, for the i-th universal effect, every
	// statically consistent binding of its quantified parameters.
	universalSuffixes [][]formalism.Binding

	cache map[string]*GroundAction
}

// ApplicableActionGenerator is the lifted applicable-action generator:
// given a state it enumerates every ground action whose precondition
// holds, building each distinct grounding at most once.
type ApplicableActionGenerator struct {
	repo    *formalism.Repository
	problem *formalism.Problem
	logger  *zap.Logger

	staticPositive *bitset.BitSet
	staticSet      *AssignmentSet[formalism.Static]
	functionValues map[Index]float64

	grounders []*actionGrounder
	actions   []*GroundAction

	axioms *AxiomEvaluator

	applicableCache *lru.Cache[Index, []*GroundAction]
}

// GeneratorOption configures an ApplicableActionGenerator.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	logger    *zap.Logger
	cacheSize int
}

// WithLogger routes the generator's diagnostics to the given logger.
func WithLogger(logger *zap.Logger) GeneratorOption {
	return func(c *generatorConfig) { c.logger = logger }
}

// WithApplicableCacheSize bounds the per-state applicable-action cache.
func WithApplicableCacheSize(size int) GeneratorOption {
	return func(c *generatorConfig) { c.cacheSize = size }
}

// NewApplicableActionGenerator compiles the problem's schemas into
// grounding state: the static assignment set, one condition grounder and
// universal-effect unrolling per action schema, and the stratified axiom
// evaluator. Malformed problems (negative initial literals, unstratified
// axioms) are rejected with ErrDomain.
func NewApplicableActionGenerator(
	repo *formalism.Repository,
	problem *formalism.Problem,
	opts ...GeneratorOption,
) (*ApplicableActionGenerator, error) {
	cfg := generatorConfig{logger: zap.NewNop(), cacheSize: defaultApplicableCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	staticPositive := bitset.New(0)
	staticAtoms := make([]*formalism.GroundAtom[formalism.Static], 0, len(problem.StaticInit()))
	for _, literal := range problem.StaticInit() {
		if literal.Negated() {
			return nil, fmt.Errorf("%w: negative static literal %s in the initial state", formalism.ErrDomain, literal)
		}
		staticPositive.Set(uint(literal.Atom().Index()))
		staticAtoms = append(staticAtoms, literal.Atom())
	}
	for _, literal := range problem.FluentInit() {
		if literal.Negated() {
			return nil, fmt.Errorf("%w: negative fluent literal %s in the initial state", formalism.ErrDomain, literal)
		}
	}

	gen := &ApplicableActionGenerator{
		repo:           repo,
		problem:        problem,
		logger:         cfg.logger,
		staticPositive: staticPositive,
		staticSet:      NewAssignmentSet(&repo.Static, repo.ObjectCount(), staticAtoms),
		functionValues: problem.InitialFunctionValues(),
	}

	cache, err := lru.New[Index, []*GroundAction](cfg.cacheSize)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "applicable-action cache")
	}
	gen.applicableCache = cache

	for _, schema := range problem.Actions() {
		grounder, err := gen.newActionGrounder(schema)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "action %s", schema.Name())
		}
		gen.grounders = append(gen.grounders, grounder)
	}

	gen.axioms, err = newAxiomEvaluator(repo, problem, gen.staticSet, staticPositive, cfg.logger)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("applicable action generator ready",
		zap.Int("actions", len(gen.grounders)),
		zap.Int("objects", repo.ObjectCount()),
		zap.Int("static_atoms", len(staticAtoms)))
	return gen, nil
}

func (g *ApplicableActionGenerator) newActionGrounder(schema *formalism.ActionSchema) (*actionGrounder, error) {
	conditions, err := NewConditionGrounder(
		g.repo, g.problem, schema.Parameters(),
		schema.StaticConditions(), schema.FluentConditions(), schema.DerivedConditions(),
		g.staticSet, g.staticPositive,
	)
	if err != nil {
		return nil, err
	}

	grounder := &actionGrounder{
		schema:     schema,
		conditions: conditions,
		cache:      make(map[string]*GroundAction),
	}

	// Universal effects quantify over their own parameter block, whose
	// ordinals continue the schema's numbering. Their statically
	// consistent suffixes never change, so they are enumerated once.
	arity := uint32(schema.Arity())
	for _, ue := range schema.UniversalEffects() {
		graph, err := NewStaticConsistencyGraph(
			g.problem.Objects(), arity, arity+uint32(ue.Arity()),
			ue.StaticConditions(), g.staticSet,
		)
		if err != nil {
			return nil, err
		}
		grounder.universalSuffixes = append(grounder.universalSuffixes, g.universalSuffixes(ue, graph))
	}
	return grounder, nil
}

// universalSuffixes enumerates the statically consistent bindings of one
// universal effect's quantified parameters from its consistency graph.
func (g *ApplicableActionGenerator) universalSuffixes(
	ue *formalism.UniversalEffect,
	graph *StaticConsistencyGraph,
) []formalism.Binding {
	vertices := graph.Vertices()
	var suffixes []formalism.Binding

	if ue.Arity() == 1 {
		for _, vertex := range vertices {
			object, err := g.repo.ObjectByIndex(vertex.ObjectIndex)
			if err != nil {
				continue
			}
			suffixes = append(suffixes, formalism.Binding{object})
		}
		return suffixes
	}

	adjacency := make([]*bitset.BitSet, len(vertices))
	for i := range adjacency {
		adjacency[i] = bitset.New(uint(len(vertices)))
	}
	for _, edge := range graph.Edges() {
		adjacency[edge.Src.ID].Set(uint(edge.Dst.ID))
		adjacency[edge.Dst.ID].Set(uint(edge.Src.ID))
	}
	findAllKCliquesInKPartiteGraph(adjacency, graph.Partitions(), func(clique []int) {
		suffix := make(formalism.Binding, len(clique))
		for _, id := range clique {
			vertex := vertices[id]
			object, err := g.repo.ObjectByIndex(vertex.ObjectIndex)
			if err != nil {
				return
			}
			suffix[vertex.ParameterIndex-graph.beginParameter] = object
		}
		suffixes = append(suffixes, suffix)
	})
	return suffixes
}

// Generate returns every ground action applicable in the state, each at
// most once, in deterministic order (schemas by index, bindings in
// lexicographic vertex-id order). Results are memoized per state index in
// a bounded LRU.
func (g *ApplicableActionGenerator) Generate(state *State) ([]*GroundAction, error) {
	if cached, ok := g.applicableCache.Get(state.index); ok {
		return cached, nil
	}

	fluentAtoms, err := atomsFromBits(&g.repo.Fluent, state.fluent)
	if err != nil {
		return nil, err
	}
	derivedAtoms, err := atomsFromBits(&g.repo.Derived, state.derived)
	if err != nil {
		return nil, err
	}
	fluentSet := NewAssignmentSet(&g.repo.Fluent, g.repo.ObjectCount(), fluentAtoms)
	derivedSet := NewAssignmentSet(&g.repo.Derived, g.repo.ObjectCount(), derivedAtoms)

	var applicable []*GroundAction
	for _, grounder := range g.grounders {
		bindings := grounder.conditions.Bindings(state.fluent, state.derived, fluentSet, derivedSet)
		for _, binding := range bindings {
			action, err := g.ground(grounder, binding)
			if err != nil {
				return nil, err
			}
			applicable = append(applicable, action)
		}
	}

	g.applicableCache.Add(state.index, applicable)
	return applicable, nil
}

// Ground builds (or retrieves) the ground action of one schema under one
// binding. A binding whose static precondition does not hold in the
// initial state is a contract violation and yields ErrDomain.
func (g *ApplicableActionGenerator) Ground(schema *formalism.ActionSchema, binding formalism.Binding) (*GroundAction, error) {
	for _, grounder := range g.grounders {
		if grounder.schema == schema {
			return g.ground(grounder, binding)
		}
	}
	return nil, fmt.Errorf("%w: schema %s is not part of the problem", formalism.ErrLookup, schema.Name())
}

func (g *ApplicableActionGenerator) ground(grounder *actionGrounder, binding formalism.Binding) (*GroundAction, error) {
	key := bindingKey(binding)
	if action, ok := grounder.cache[key]; ok {
		return action, nil
	}

	schema := grounder.schema
	precondition := g.compilePrecondition(binding, schema.StaticConditions(), schema.FluentConditions(), schema.DerivedConditions())
	if !precondition.IsStaticallyApplicable(g.staticPositive) {
		return nil, fmt.Errorf("%w: grounding %s is statically inconsistent; static consistency must be enforced at binding time",
			formalism.ErrDomain, formatGroundApplication(schema.Name(), binding, len(binding)))
	}

	effect := newStripsEffect()
	for _, simple := range schema.SimpleEffects() {
		ground := formalism.GroundLiteralUnderBinding(&g.repo.Fluent, simple.Literal(), binding)
		if ground.Negated() {
			effect.Negative.Set(uint(ground.Atom().Index()))
		} else {
			effect.Positive.Set(uint(ground.Atom().Index()))
		}
	}

	var conditionals []GroundConditionalEffect
	for _, ce := range schema.ConditionalEffects() {
		ground := formalism.GroundLiteralUnderBinding(&g.repo.Fluent, ce.Effect(), binding)
		conditionals = append(conditionals, GroundConditionalEffect{
			Precondition: g.compilePrecondition(binding, ce.StaticConditions(), ce.FluentConditions(), ce.DerivedConditions()),
			Negated:      ground.Negated(),
			AtomIndex:    ground.Atom().Index(),
		})
	}

	// Universal effects unroll into one conditional effect per statically
	// consistent suffix of their quantified parameters.
	for i, ue := range schema.UniversalEffects() {
		for _, suffix := range grounder.universalSuffixes[i] {
			extended := make(formalism.Binding, 0, len(binding)+len(suffix))
			extended = append(extended, binding...)
			extended = append(extended, suffix...)

			pre := g.compilePrecondition(extended, ue.StaticConditions(), ue.FluentConditions(), ue.DerivedConditions())
			if !pre.IsStaticallyApplicable(g.staticPositive) {
				continue
			}
			ground := formalism.GroundLiteralUnderBinding(&g.repo.Fluent, ue.Effect(), extended)
			conditionals = append(conditionals, GroundConditionalEffect{
				Precondition: pre,
				Negated:      ground.Negated(),
				AtomIndex:    ground.Atom().Index(),
			})
		}
	}

	groundCost := g.repo.GroundExpressionUnderBinding(schema.Cost(), binding)
	cost, err := formalism.EvaluateGroundExpression(groundCost, g.functionValues)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cost of %s", formatGroundApplication(schema.Name(), binding, len(binding)))
	}

	action := &GroundAction{
		index:              Index(len(g.actions)),
		schema:             schema,
		binding:            append(formalism.Binding(nil), binding...),
		precondition:       precondition,
		effect:             effect,
		conditionalEffects: conditionals,
		cost:               cost,
	}
	g.actions = append(g.actions, action)
	grounder.cache[key] = action
	return action, nil
}

// compilePrecondition grounds pre-partitioned condition lists under a
// binding and packs them into polarity bitsets.
func (g *ApplicableActionGenerator) compilePrecondition(
	binding formalism.Binding,
	staticConditions []*formalism.Literal[formalism.Static],
	fluentConditions []*formalism.Literal[formalism.Fluent],
	derivedConditions []*formalism.Literal[formalism.Derived],
) StripsPrecondition {
	return compilePreconditionBits(g.repo, binding, staticConditions, fluentConditions, derivedConditions)
}

// compilePreconditionBits is shared between the action grounder and the
// axiom evaluator.
func compilePreconditionBits(
	repo *formalism.Repository,
	binding formalism.Binding,
	staticConditions []*formalism.Literal[formalism.Static],
	fluentConditions []*formalism.Literal[formalism.Fluent],
	derivedConditions []*formalism.Literal[formalism.Derived],
) StripsPrecondition {
	pre := newStripsPrecondition()
	for _, literal := range staticConditions {
		ground := formalism.GroundLiteralUnderBinding(&repo.Static, literal, binding)
		if ground.Negated() {
			pre.NegativeStatic.Set(uint(ground.Atom().Index()))
		} else {
			pre.PositiveStatic.Set(uint(ground.Atom().Index()))
		}
	}
	for _, literal := range fluentConditions {
		ground := formalism.GroundLiteralUnderBinding(&repo.Fluent, literal, binding)
		if ground.Negated() {
			pre.NegativeFluent.Set(uint(ground.Atom().Index()))
		} else {
			pre.PositiveFluent.Set(uint(ground.Atom().Index()))
		}
	}
	for _, literal := range derivedConditions {
		ground := formalism.GroundLiteralUnderBinding(&repo.Derived, literal, binding)
		if ground.Negated() {
			pre.NegativeDerived.Set(uint(ground.Atom().Index()))
		} else {
			pre.PositiveDerived.Set(uint(ground.Atom().Index()))
		}
	}
	return pre
}

// AxiomsFixpoint computes the derived bitset of a fluent state by
// forward-chaining the problem's axioms to a fixed point, stratum by
// stratum.
func (g *ApplicableActionGenerator) AxiomsFixpoint(fluent *bitset.BitSet) (*bitset.BitSet, error) {
	return g.axioms.Evaluate(fluent)
}

// AxiomEvaluator returns the generator's stratified axiom evaluator.
func (g *ApplicableActionGenerator) AxiomEvaluator() *AxiomEvaluator { return g.axioms }

// Problem returns the problem this generator was compiled for.
func (g *ApplicableActionGenerator) Problem() *formalism.Problem { return g.problem }

// Repository returns the owning interning repository.
func (g *ApplicableActionGenerator) Repository() *formalism.Repository { return g.repo }

// StaticPositive returns the bitset of static atoms true in the initial
// state. The returned set must not be mutated.
func (g *ApplicableActionGenerator) StaticPositive() *bitset.BitSet { return g.staticPositive }

// GroundActionByIndex returns the ground action at index i, or an error
// wrapping ErrLookup.
func (g *ApplicableActionGenerator) GroundActionByIndex(i Index) (*GroundAction, error) {
	if int(i) >= len(g.actions) {
		return nil, fmt.Errorf("%w: ground action index %d out of range (population %d)", formalism.ErrLookup, i, len(g.actions))
	}
	return g.actions[i], nil
}

// GroundActionCount returns the number of distinct groundings built so
// far.
func (g *ApplicableActionGenerator) GroundActionCount() int { return len(g.actions) }

// ConsistencyGraph returns the static consistency graph of a schema, for
// inspection and DOT dumps.
func (g *ApplicableActionGenerator) ConsistencyGraph(schema *formalism.ActionSchema) (*StaticConsistencyGraph, error) {
	for _, grounder := range g.grounders {
		if grounder.schema == schema {
			return grounder.conditions.Graph(), nil
		}
	}
	return nil, fmt.Errorf("%w: schema %s is not part of the problem", formalism.ErrLookup, schema.Name())
}

// bindingKey packs a binding's object indices into a map key.
func bindingKey(binding formalism.Binding) string {
	buf := make([]byte, 0, 4*len(binding))
	for _, object := range binding {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(object.Index()))
	}
	return string(buf)
}

// atomsFromBits resolves the set bits of a state bitset back to ground
// atoms through the kind store.
func atomsFromBits[K formalism.Kind](store *formalism.KindStore[K], bits *bitset.BitSet) ([]*formalism.GroundAtom[K], error) {
	atoms := make([]*formalism.GroundAtom[K], 0, bits.Count())
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		atom, err := store.GroundAtomByIndex(Index(i))
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}
