package formalism

// ActionSchema is a parameterized action. Conditions are pre-partitioned
// by predicate kind and stored in canonical index order; effects are split
// into unconditional simple effects, conditional effects, and universal
// effects.
//
// OriginalArity records the arity before any compilation step appended
// extra parameters (for example a derived goal parameter); the plan
// printer emits only the first OriginalArity binding entries.
type ActionSchema struct {
	index              Index
	name               string
	originalArity      uint32
	parameters         []*Variable
	staticConditions   []*Literal[Static]
	fluentConditions   []*Literal[Fluent]
	derivedConditions  []*Literal[Derived]
	simpleEffects      []*SimpleEffect
	conditionalEffects []*ConditionalEffect
	universalEffects   []*UniversalEffect
	cost               FunctionExpression
}

// Index returns the schema's position in the repository.
func (a *ActionSchema) Index() Index { return a.index }

// Name returns the schema's name.
func (a *ActionSchema) Name() string { return a.name }

// OriginalArity returns the arity before compilation added parameters.
func (a *ActionSchema) OriginalArity() uint32 { return a.originalArity }

// Parameters returns the full parameter list, including any parameters
// added by compilation.
func (a *ActionSchema) Parameters() []*Variable { return a.parameters }

// Arity returns the full parameter count.
func (a *ActionSchema) Arity() int { return len(a.parameters) }

// StaticConditions returns the static preconditions in canonical order.
func (a *ActionSchema) StaticConditions() []*Literal[Static] { return a.staticConditions }

// FluentConditions returns the fluent preconditions in canonical order.
func (a *ActionSchema) FluentConditions() []*Literal[Fluent] { return a.fluentConditions }

// DerivedConditions returns the derived preconditions in canonical order.
func (a *ActionSchema) DerivedConditions() []*Literal[Derived] { return a.derivedConditions }

// SimpleEffects returns the unconditional effects in canonical order.
func (a *ActionSchema) SimpleEffects() []*SimpleEffect { return a.simpleEffects }

// ConditionalEffects returns the conditional effects in canonical order
// (negated effect literals first, then by index).
func (a *ActionSchema) ConditionalEffects() []*ConditionalEffect { return a.conditionalEffects }

// UniversalEffects returns the universal effects in canonical order.
func (a *ActionSchema) UniversalEffects() []*UniversalEffect { return a.universalEffects }

// Cost returns the schema's cost expression.
func (a *ActionSchema) Cost() FunctionExpression { return a.cost }

func (a *ActionSchema) String() string {
	return formatApplication(a.name, a.parameters)
}
