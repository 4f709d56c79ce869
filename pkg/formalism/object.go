package formalism

// Object is a PDDL constant. Objects are created once during problem
// loading, are never mutated, and live for the lifetime of the problem.
type Object struct {
	index Index
	name  string
}

// Index returns the object's position in the repository.
func (o *Object) Index() Index { return o.index }

// Name returns the object's name.
func (o *Object) Name() string { return o.name }

func (o *Object) String() string { return o.name }

func (o *Object) isTerm() {}
