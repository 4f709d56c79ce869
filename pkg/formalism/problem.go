package formalism

// Problem is a fully interned planning problem: the object universe, the
// initial situation, the goal condition, and the action and axiom schemas.
// The surrounding parser produces a Problem through the repository; the
// search layer only ever reads it.
type Problem struct {
	index             Index
	name              string
	objects           []*Object
	derivedPredicates []*Predicate[Derived]
	staticInit        []*GroundLiteral[Static]
	fluentInit        []*GroundLiteral[Fluent]
	numericFluents    []*NumericFluent
	staticGoal        []*GroundLiteral[Static]
	fluentGoal        []*GroundLiteral[Fluent]
	derivedGoal       []*GroundLiteral[Derived]
	actions           []*ActionSchema
	axioms            []*AxiomSchema
	metric            GroundFunctionExpression
}

// Index returns the problem's position in the repository.
func (p *Problem) Index() Index { return p.index }

// Name returns the problem's name.
func (p *Problem) Name() string { return p.name }

// Objects returns the object universe in canonical index order.
func (p *Problem) Objects() []*Object { return p.objects }

// DerivedPredicates returns the derived predicates declared by the
// problem (in addition to any declared by the domain), in canonical order.
func (p *Problem) DerivedPredicates() []*Predicate[Derived] { return p.derivedPredicates }

// StaticInit returns the static initial literals in canonical order.
func (p *Problem) StaticInit() []*GroundLiteral[Static] { return p.staticInit }

// FluentInit returns the fluent initial literals in canonical order.
func (p *Problem) FluentInit() []*GroundLiteral[Fluent] { return p.fluentInit }

// NumericFluents returns the initial numeric fluent assignments in
// canonical order.
func (p *Problem) NumericFluents() []*NumericFluent { return p.numericFluents }

// StaticGoal returns the static part of the goal in canonical order.
func (p *Problem) StaticGoal() []*GroundLiteral[Static] { return p.staticGoal }

// FluentGoal returns the fluent part of the goal in canonical order.
func (p *Problem) FluentGoal() []*GroundLiteral[Fluent] { return p.fluentGoal }

// DerivedGoal returns the derived part of the goal in canonical order.
func (p *Problem) DerivedGoal() []*GroundLiteral[Derived] { return p.derivedGoal }

// Actions returns the action schemas in canonical order.
func (p *Problem) Actions() []*ActionSchema { return p.actions }

// Axioms returns the axiom schemas in canonical order.
func (p *Problem) Axioms() []*AxiomSchema { return p.axioms }

// Metric returns the optimization metric, or nil if the problem does not
// declare one.
func (p *Problem) Metric() GroundFunctionExpression { return p.metric }

// HasAxioms reports whether any axiom schema is present. The state
// repository skips derived-atom computation entirely for problems without
// axioms.
func (p *Problem) HasAxioms() bool { return len(p.axioms) > 0 }

// InitialFunctionValues returns the ground-function value assignment
// stated in the init section, keyed by ground-function index.
func (p *Problem) InitialFunctionValues() map[Index]float64 {
	values := make(map[Index]float64, len(p.numericFluents))
	for _, nf := range p.numericFluents {
		values[nf.function.Index()] = nf.value
	}
	return values
}
