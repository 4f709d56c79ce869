package formalism

// AxiomSchema is a Horn-like rule deriving a derived-predicate atom from a
// conjunction of literals: head ← static ∧ fluent ∧ derived conditions.
// The head is always a positive derived literal; the repository rejects a
// negated head with ErrDomain.
type AxiomSchema struct {
	index             Index
	parameters        []*Variable
	head              *Literal[Derived]
	staticConditions  []*Literal[Static]
	fluentConditions  []*Literal[Fluent]
	derivedConditions []*Literal[Derived]
}

// Index returns the schema's position in the repository.
func (a *AxiomSchema) Index() Index { return a.index }

// Parameters returns the parameter list.
func (a *AxiomSchema) Parameters() []*Variable { return a.parameters }

// Arity returns the parameter count.
func (a *AxiomSchema) Arity() int { return len(a.parameters) }

// Head returns the derived literal asserted by the axiom.
func (a *AxiomSchema) Head() *Literal[Derived] { return a.head }

// StaticConditions returns the static body literals in canonical order.
func (a *AxiomSchema) StaticConditions() []*Literal[Static] { return a.staticConditions }

// FluentConditions returns the fluent body literals in canonical order.
func (a *AxiomSchema) FluentConditions() []*Literal[Fluent] { return a.fluentConditions }

// DerivedConditions returns the derived body literals in canonical order.
func (a *AxiomSchema) DerivedConditions() []*Literal[Derived] { return a.derivedConditions }

func (a *AxiomSchema) String() string {
	return "(:derived " + a.head.String() + ")"
}
