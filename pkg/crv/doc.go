// Package crv implements the constrained-random verification engine: an
// embeddable Randomized base that holds a set of random variables with
// finite domains, a set of hard constraints and weighted distributions
// over them, and the randomize/randomize_with operations that pick a
// satisfying assignment and write it back into the embedding struct's
// fields.
//
// Go function values carry no parameter names at runtime, so a constraint
// or distribution names the variables it depends on explicitly at
// registration (AddConstraint) rather than having them inferred by
// inspecting formal parameters. Classifying a registration as a hard
// constraint (boolean-returning) versus a distribution (numeric-returning)
// is automatic, performed by reflecting on the function's return type.
package crv
