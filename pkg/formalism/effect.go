package formalism

import "strings"

// SimpleEffect is an unconditional fluent literal effect of an action
// schema.
type SimpleEffect struct {
	index   Index
	literal *Literal[Fluent]
}

// Index returns the effect's position in the repository.
func (e *SimpleEffect) Index() Index { return e.index }

// Literal returns the effect literal.
func (e *SimpleEffect) Literal() *Literal[Fluent] { return e.literal }

func (e *SimpleEffect) String() string { return e.literal.String() }

// ConditionalEffect is a "when" effect: a single fluent literal guarded by
// its own static, fluent, and derived conditions over the schema's
// parameters.
type ConditionalEffect struct {
	index             Index
	staticConditions  []*Literal[Static]
	fluentConditions  []*Literal[Fluent]
	derivedConditions []*Literal[Derived]
	effect            *Literal[Fluent]
}

// Index returns the effect's position in the repository.
func (e *ConditionalEffect) Index() Index { return e.index }

// StaticConditions returns the static guard literals in canonical order.
func (e *ConditionalEffect) StaticConditions() []*Literal[Static] { return e.staticConditions }

// FluentConditions returns the fluent guard literals in canonical order.
func (e *ConditionalEffect) FluentConditions() []*Literal[Fluent] { return e.fluentConditions }

// DerivedConditions returns the derived guard literals in canonical order.
func (e *ConditionalEffect) DerivedConditions() []*Literal[Derived] { return e.derivedConditions }

// Effect returns the guarded fluent literal.
func (e *ConditionalEffect) Effect() *Literal[Fluent] { return e.effect }

func (e *ConditionalEffect) String() string {
	var sb strings.Builder
	sb.WriteString("(when (and")
	for _, l := range e.staticConditions {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	for _, l := range e.fluentConditions {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	for _, l := range e.derivedConditions {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteString(") ")
	sb.WriteString(e.effect.String())
	sb.WriteByte(')')
	return sb.String()
}

// UniversalEffect is a "forall" effect with its own quantified parameters.
// The grounder unrolls a universal effect over every statically consistent
// combination of its parameters, producing one conditional effect per
// combination; ground actions therefore carry conditional effects only.
type UniversalEffect struct {
	index             Index
	parameters        []*Variable
	staticConditions  []*Literal[Static]
	fluentConditions  []*Literal[Fluent]
	derivedConditions []*Literal[Derived]
	effect            *Literal[Fluent]
}

// Index returns the effect's position in the repository.
func (e *UniversalEffect) Index() Index { return e.index }

// Parameters returns the quantified parameters. Their parameter indices
// continue the owning schema's parameter numbering.
func (e *UniversalEffect) Parameters() []*Variable { return e.parameters }

// Arity returns the number of quantified parameters.
func (e *UniversalEffect) Arity() int { return len(e.parameters) }

// StaticConditions returns the static guard literals in canonical order.
func (e *UniversalEffect) StaticConditions() []*Literal[Static] { return e.staticConditions }

// FluentConditions returns the fluent guard literals in canonical order.
func (e *UniversalEffect) FluentConditions() []*Literal[Fluent] { return e.fluentConditions }

// DerivedConditions returns the derived guard literals in canonical order.
func (e *UniversalEffect) DerivedConditions() []*Literal[Derived] { return e.derivedConditions }

// Effect returns the quantified fluent literal.
func (e *UniversalEffect) Effect() *Literal[Fluent] { return e.effect }

func (e *UniversalEffect) String() string {
	var sb strings.Builder
	sb.WriteString("(forall (")
	for i, v := range e.parameters {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(v.String())
	}
	sb.WriteString(") ")
	sb.WriteString(e.effect.String())
	sb.WriteByte(')')
	return sb.String()
}
