// Package solver implements a finite-domain constraint satisfaction (CSP)
// backend: given a set of named variables with ordered, finite domains of
// arbitrary hashable values and a set of opaque boolean predicates over
// those variables, it enumerates satisfying assignments.
//
// The design follows the Model/Domain/Solver split used by the constraint
// engine this package was generalized from: a Model is the immutable
// declarative problem (variables, domains, constraints), and a Solver walks
// it with backtracking search plus forward checking, producing assignments
// in a reproducible order for a fixed seed.
//
// Unlike a typical finite-domain solver restricted to integers, domain
// values here may be any value usable as a map key (the constrained-random
// use case needs domains of strings, tuples, and other enumerated Go
// values, not just integers). Internally each domain is represented as an
// ordered slice with a companion bitset over its indices, so the same
// compact set operations apply regardless of the value type.
package solver
