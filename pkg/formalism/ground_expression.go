package formalism

import (
	"fmt"
	"strings"
)

// GroundFunctionExpression mirrors FunctionExpression with all function
// arguments resolved to objects. Ground expressions are produced by the
// grounder when it compiles a schema's cost expression under a binding,
// and are evaluated against the problem's numeric fluents.
type GroundFunctionExpression interface {
	fmt.Stringer

	// Index returns the expression's position in the repository.
	Index() Index

	isGroundFunctionExpression()
}

// GroundNumberExpression is a numeric constant.
type GroundNumberExpression struct {
	index Index
	value float64
}

func (e *GroundNumberExpression) Index() Index                 { return e.index }
func (e *GroundNumberExpression) Value() float64               { return e.value }
func (e *GroundNumberExpression) String() string               { return fmt.Sprintf("%g", e.value) }
func (e *GroundNumberExpression) isGroundFunctionExpression() {}

// GroundBinaryExpression applies a binary operator to two ground
// subexpressions.
type GroundBinaryExpression struct {
	index    Index
	operator BinaryOperator
	left     GroundFunctionExpression
	right    GroundFunctionExpression
}

func (e *GroundBinaryExpression) Index() Index                    { return e.index }
func (e *GroundBinaryExpression) Operator() BinaryOperator        { return e.operator }
func (e *GroundBinaryExpression) Left() GroundFunctionExpression  { return e.left }
func (e *GroundBinaryExpression) Right() GroundFunctionExpression { return e.right }
func (e *GroundBinaryExpression) isGroundFunctionExpression()     {}

func (e *GroundBinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.operator, e.left, e.right)
}

// GroundMultiExpression applies a commutative operator to two or more
// ground subexpressions, stored in canonical index order.
type GroundMultiExpression struct {
	index    Index
	operator MultiOperator
	operands []GroundFunctionExpression
}

func (e *GroundMultiExpression) Index() Index            { return e.index }
func (e *GroundMultiExpression) Operator() MultiOperator { return e.operator }
func (e *GroundMultiExpression) Operands() []GroundFunctionExpression {
	return e.operands
}
func (e *GroundMultiExpression) isGroundFunctionExpression() {}

func (e *GroundMultiExpression) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(e.operator.String())
	for _, op := range e.operands {
		sb.WriteByte(' ')
		sb.WriteString(op.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// GroundMinusExpression negates a ground subexpression.
type GroundMinusExpression struct {
	index   Index
	operand GroundFunctionExpression
}

func (e *GroundMinusExpression) Index() Index { return e.index }
func (e *GroundMinusExpression) Operand() GroundFunctionExpression {
	return e.operand
}
func (e *GroundMinusExpression) String() string              { return "(- " + e.operand.String() + ")" }
func (e *GroundMinusExpression) isGroundFunctionExpression() {}

// GroundFunctionReference reads the value of a ground function.
type GroundFunctionReference struct {
	index    Index
	function *GroundFunction
}

func (e *GroundFunctionReference) Index() Index                  { return e.index }
func (e *GroundFunctionReference) Function() *GroundFunction     { return e.function }
func (e *GroundFunctionReference) String() string                { return e.function.String() }
func (e *GroundFunctionReference) isGroundFunctionExpression()   {}

// EvaluateGroundExpression computes the value of a ground expression under
// the given assignment of ground-function indices to values. Division by
// zero and references to unassigned functions yield an error wrapping
// ErrArithmetic.
func EvaluateGroundExpression(expr GroundFunctionExpression, values map[Index]float64) (float64, error) {
	switch e := expr.(type) {
	case *GroundNumberExpression:
		return e.value, nil
	case *GroundBinaryExpression:
		left, err := EvaluateGroundExpression(e.left, values)
		if err != nil {
			return 0, err
		}
		right, err := EvaluateGroundExpression(e.right, values)
		if err != nil {
			return 0, err
		}
		return e.operator.apply(left, right)
	case *GroundMultiExpression:
		acc := e.operator.identity()
		for _, operand := range e.operands {
			v, err := EvaluateGroundExpression(operand, values)
			if err != nil {
				return 0, err
			}
			acc, err = e.operator.fold(acc, v)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil
	case *GroundMinusExpression:
		v, err := EvaluateGroundExpression(e.operand, values)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *GroundFunctionReference:
		v, ok := values[e.function.Index()]
		if !ok {
			return 0, fmt.Errorf("%w: undefined value of %s", ErrArithmetic, e.function)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown expression form %T", ErrArithmetic, expr)
}
