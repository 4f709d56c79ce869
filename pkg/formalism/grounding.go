package formalism

// Binding maps a schema's parameter ordinals to objects. Binding[i] is
// the object substituted for the parameter with ParameterIndex i.
type Binding []*Object

// resolve substitutes a term under a binding. Indexing past the end of
// the binding is a contract violation by the caller and panics.
func (b Binding) resolve(t Term) *Object {
	switch x := t.(type) {
	case *Object:
		return x
	case *Variable:
		return b[x.parameterIndex]
	}
	panic("formalism: unknown term variant")
}

// GroundAtomUnderBinding resolves a schema atom to its ground form by
// substituting objects for variables through the interning store.
func GroundAtomUnderBinding[K Kind](s *KindStore[K], atom *Atom[K], binding Binding) *GroundAtom[K] {
	objects := make([]*Object, len(atom.terms))
	for i, t := range atom.terms {
		objects[i] = binding.resolve(t)
	}
	return s.GetOrCreateGroundAtom(atom.predicate, objects)
}

// GroundLiteralUnderBinding resolves a schema literal to its ground form.
func GroundLiteralUnderBinding[K Kind](s *KindStore[K], literal *Literal[K], binding Binding) *GroundLiteral[K] {
	return s.GetOrCreateGroundLiteral(literal.negated, GroundAtomUnderBinding(s, literal.atom, binding))
}

// GroundFunctionUnderBinding resolves a schema function to its ground
// form.
func (r *Repository) GroundFunctionUnderBinding(function *Function, binding Binding) *GroundFunction {
	objects := make([]*Object, len(function.terms))
	for i, t := range function.terms {
		objects[i] = binding.resolve(t)
	}
	return r.GetOrCreateGroundFunction(function.skeleton, objects)
}

// GroundExpressionUnderBinding resolves a schema cost expression to its
// ground form.
func (r *Repository) GroundExpressionUnderBinding(expr FunctionExpression, binding Binding) GroundFunctionExpression {
	switch e := expr.(type) {
	case *NumberExpression:
		return r.GetOrCreateGroundNumberExpression(e.value)
	case *BinaryExpression:
		left := r.GroundExpressionUnderBinding(e.left, binding)
		right := r.GroundExpressionUnderBinding(e.right, binding)
		return r.GetOrCreateGroundBinaryExpression(e.operator, left, right)
	case *MultiExpression:
		operands := make([]GroundFunctionExpression, len(e.operands))
		for i, op := range e.operands {
			operands[i] = r.GroundExpressionUnderBinding(op, binding)
		}
		return r.GetOrCreateGroundMultiExpression(e.operator, operands)
	case *MinusExpression:
		return r.GetOrCreateGroundMinusExpression(r.GroundExpressionUnderBinding(e.operand, binding))
	case *FunctionReference:
		return r.GetOrCreateGroundFunctionReference(r.GroundFunctionUnderBinding(e.function, binding))
	}
	panic("formalism: unknown function expression variant")
}
