package formalism

import (
	"errors"
	"testing"
)

func TestEvaluateGroundExpression(t *testing.T) {
	r := NewRepository()

	skeleton, err := r.GetOrCreateFunctionSkeleton("fuel", nil)
	if err != nil {
		t.Fatalf("GetOrCreateFunctionSkeleton() error = %v", err)
	}
	fuel := r.GetOrCreateGroundFunction(skeleton, nil)
	values := map[Index]float64{fuel.Index(): 10}

	two := r.GetOrCreateGroundNumberExpression(2)
	five := r.GetOrCreateGroundNumberExpression(5)
	fuelRef := r.GetOrCreateGroundFunctionReference(fuel)

	tests := []struct {
		name string
		expr GroundFunctionExpression
		want float64
	}{
		{"number", five, 5},
		{"function reference", fuelRef, 10},
		{"binary minus", r.GetOrCreateGroundBinaryExpression(OpMinus, fuelRef, two), 8},
		{"binary div", r.GetOrCreateGroundBinaryExpression(OpDiv, fuelRef, two), 5},
		{"sum", r.GetOrCreateGroundMultiExpression(OpSum, []GroundFunctionExpression{two, five, fuelRef}), 17},
		{"product", r.GetOrCreateGroundMultiExpression(OpProduct, []GroundFunctionExpression{two, five}), 10},
		{"unary minus", r.GetOrCreateGroundMinusExpression(five), -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateGroundExpression(tt.expr, values)
			if err != nil {
				t.Fatalf("EvaluateGroundExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateGroundExpression() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	r := NewRepository()
	one := r.GetOrCreateGroundNumberExpression(1)
	zero := r.GetOrCreateGroundNumberExpression(0)
	div := r.GetOrCreateGroundBinaryExpression(OpDiv, one, zero)

	if _, err := EvaluateGroundExpression(div, nil); !errors.Is(err, ErrArithmetic) {
		t.Errorf("division by zero: err = %v, want ErrArithmetic", err)
	}
}

func TestEvaluateUndefinedFunction(t *testing.T) {
	r := NewRepository()
	skeleton, err := r.GetOrCreateFunctionSkeleton("fuel", nil)
	if err != nil {
		t.Fatalf("GetOrCreateFunctionSkeleton() error = %v", err)
	}
	ref := r.GetOrCreateGroundFunctionReference(r.GetOrCreateGroundFunction(skeleton, nil))

	if _, err := EvaluateGroundExpression(ref, map[Index]float64{}); !errors.Is(err, ErrArithmetic) {
		t.Errorf("undefined function value: err = %v, want ErrArithmetic", err)
	}
}

func TestGroundExpressionCommutativity(t *testing.T) {
	r := NewRepository()
	one := r.GetOrCreateGroundNumberExpression(1)
	two := r.GetOrCreateGroundNumberExpression(2)

	left := r.GetOrCreateGroundMultiExpression(OpProduct, []GroundFunctionExpression{one, two})
	right := r.GetOrCreateGroundMultiExpression(OpProduct, []GroundFunctionExpression{two, one})
	if left != right {
		t.Error("permuted ground operands must intern to the same expression")
	}
}

func TestGroundExpressionUnderBinding(t *testing.T) {
	r := NewRepository()
	x := r.GetOrCreateVariable("?x", 0)
	skeleton, err := r.GetOrCreateFunctionSkeleton("dist", []*Variable{x})
	if err != nil {
		t.Fatalf("GetOrCreateFunctionSkeleton() error = %v", err)
	}
	a := r.GetOrCreateObject("a")

	fn := r.GetOrCreateFunction(skeleton, []Term{x})
	expr := r.GetOrCreateBinaryExpression(OpMul,
		r.GetOrCreateFunctionReference(fn),
		r.GetOrCreateNumberExpression(3))

	ground := r.GroundExpressionUnderBinding(expr, Binding{a})
	values := map[Index]float64{
		r.GetOrCreateGroundFunction(skeleton, []*Object{a}).Index(): 4,
	}
	got, err := EvaluateGroundExpression(ground, values)
	if err != nil {
		t.Fatalf("EvaluateGroundExpression() error = %v", err)
	}
	if got != 12 {
		t.Errorf("grounded (* (dist a) 3) = %g, want 12", got)
	}
}
