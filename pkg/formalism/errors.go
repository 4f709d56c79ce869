package formalism

import "errors"

// The four error kinds of the planning core. Callers classify failures
// with errors.Is; additional call-site context is wrapped around these
// sentinels.
var (
	// ErrDomain marks a malformed problem: unstratified axioms, a negative
	// initial literal, a duplicate predicate name, or an unsupported
	// construct. Fatal; the current run must terminate.
	ErrDomain = errors.New("domain error")

	// ErrBinding marks a contract violation while building grouped
	// storage: input not sorted by group id, or a group id out of bounds.
	// Fatal.
	ErrBinding = errors.New("binding error")

	// ErrArithmetic marks division by zero or an undefined operator while
	// evaluating a function expression. Fatal.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrLookup marks a request for an interned value by an index that has
	// not been allocated. Recoverable: a caller may probe and populate.
	ErrLookup = errors.New("lookup error")
)
