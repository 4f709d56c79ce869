package formalism

import "fmt"

// FunctionSkeleton declares a numeric fluent: a name together with a
// parameter list, analogous to a predicate for the numeric part of the
// problem.
type FunctionSkeleton struct {
	index      Index
	name       string
	parameters []*Variable
}

// Index returns the skeleton's position in the repository.
func (s *FunctionSkeleton) Index() Index { return s.index }

// Name returns the skeleton's name.
func (s *FunctionSkeleton) Name() string { return s.name }

// Parameters returns the parameter list. The returned slice must not be
// mutated.
func (s *FunctionSkeleton) Parameters() []*Variable { return s.parameters }

// Arity returns the number of parameters.
func (s *FunctionSkeleton) Arity() int { return len(s.parameters) }

func (s *FunctionSkeleton) String() string {
	return formatApplication(s.name, s.parameters)
}

// Function applies a skeleton to terms; it appears inside schema cost
// expressions where arguments may still be variables.
type Function struct {
	index    Index
	skeleton *FunctionSkeleton
	terms    []Term
}

// Index returns the function's position in the repository.
func (f *Function) Index() Index { return f.index }

// Skeleton returns the applied skeleton.
func (f *Function) Skeleton() *FunctionSkeleton { return f.skeleton }

// Terms returns the argument list. The returned slice must not be mutated.
func (f *Function) Terms() []Term { return f.terms }

func (f *Function) String() string {
	return formatApplication(f.skeleton.name, f.terms)
}

// GroundFunction applies a skeleton to objects only.
type GroundFunction struct {
	index    Index
	skeleton *FunctionSkeleton
	objects  []*Object
}

// Index returns the ground function's position in the repository.
func (f *GroundFunction) Index() Index { return f.index }

// Skeleton returns the applied skeleton.
func (f *GroundFunction) Skeleton() *FunctionSkeleton { return f.skeleton }

// Objects returns the argument list. The returned slice must not be
// mutated.
func (f *GroundFunction) Objects() []*Object { return f.objects }

func (f *GroundFunction) String() string {
	return formatApplication(f.skeleton.name, f.objects)
}

// NumericFluent assigns the initial value of a ground function, as stated
// in the problem's init section.
type NumericFluent struct {
	index    Index
	function *GroundFunction
	value    float64
}

// Index returns the numeric fluent's position in the repository.
func (n *NumericFluent) Index() Index { return n.index }

// Function returns the ground function being assigned.
func (n *NumericFluent) Function() *GroundFunction { return n.function }

// Value returns the assigned value.
func (n *NumericFluent) Value() float64 { return n.value }

func (n *NumericFluent) String() string {
	return fmt.Sprintf("(= %s %g)", n.function, n.value)
}
