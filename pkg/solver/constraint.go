package solver

import "fmt"

// Assignment maps variable name to its current concrete value. A Constraint
// sees the full assignment visible at evaluation time — its own variables
// plus whatever predecessor variables and non-random object fields the
// caller chose to carry along — and reads only the names it declared.
type Assignment map[string]interface{}

// Int returns the named value as an int, panicking if absent or not an int.
// Convenience accessor for predicate bodies, which overwhelmingly deal in
// integer-domain variables.
func (a Assignment) Int(name string) int {
	v, ok := a[name].(int)
	if !ok {
		panic(fmt.Sprintf("solver: assignment value %q is not an int", name))
	}
	return v
}

// Constraint is an opaque predicate over a named subset of a Model's
// variables. The solver treats Check as a black box: it does not attempt to
// decompose or symbolically analyze it, only to call it as seldom as
// possible (forward checking) and to backtrack cleanly when it fails.
type Constraint interface {
	// Vars returns the (fixed) set of variable names this constraint reads.
	Vars() []string
	// Check reports whether the constraint holds under the given
	// assignment. The assignment is guaranteed to contain a value for
	// every name in Vars().
	Check(a Assignment) (bool, error)
	// String names the constraint for error messages naming "the group
	// and offending constraints" per the solver failure contract.
	String() string
}

type predicate struct {
	vars []string
	fn   func(Assignment) (bool, error)
	name string
}

// NewPredicate wraps an arbitrary Go function as a Constraint over the
// named variables. fn receives the assignment being checked, which holds
// at least the values named in vars.
func NewPredicate(name string, vars []string, fn func(Assignment) (bool, error)) Constraint {
	return &predicate{vars: append([]string(nil), vars...), fn: fn, name: name}
}

func (p *predicate) Vars() []string { return p.vars }

func (p *predicate) Check(a Assignment) (bool, error) { return p.fn(a) }

func (p *predicate) String() string {
	if p.name != "" {
		return p.name
	}
	return fmt.Sprintf("predicate(%v)", p.vars)
}
