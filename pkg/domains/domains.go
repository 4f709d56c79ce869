// Package domains builds a few classical benchmark problems directly
// through the interning repository, playing the role the PDDL parser
// plays in a full toolchain. The builders double as executable
// documentation of the formalism API and as inputs for the CLI (including
// its bench command) and the tests.
package domains

import (
	"fmt"

	"github.com/gitrdm/gomimir/pkg/formalism"
)

// Instance is a built problem together with the repository that owns it.
type Instance struct {
	Name       string
	Repository *formalism.Repository
	Problem    *formalism.Problem
}

// Builder constructs one parameterized instance of a domain family.
type Builder func(size int) (*Instance, error)

// Catalog lists the built-in domain families by name.
func Catalog() map[string]Builder {
	return map[string]Builder{
		"blocks":       Blocks,
		"gripper":      Gripper,
		"reachability": Reachability,
	}
}

// Build constructs an instance of a named family, or fails with
// ErrLookup for an unknown name.
func Build(name string, size int) (*Instance, error) {
	builder, ok := Catalog()[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown domain %q", formalism.ErrLookup, name)
	}
	return builder(size)
}

// params interns a parameter list with consecutive ordinals.
func params(repo *formalism.Repository, names ...string) []*formalism.Variable {
	out := make([]*formalism.Variable, len(names))
	for i, name := range names {
		out[i] = repo.GetOrCreateVariable(name, uint32(i))
	}
	return out
}
