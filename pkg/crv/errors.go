package crv

import "github.com/pkg/errors"

// ErrSolverFailed is returned by Randomize/RandomizeWith when some solve
// group has no satisfying assignment. No field on the receiver is modified
// when this error is returned.
var ErrSolverFailed = errors.New("crv: solver failed")

// ErrUnknownVariable is returned when a constraint or distribution names a
// variable that is neither a declared random variable nor an exported field
// of the embedding struct.
var ErrUnknownVariable = errors.New("crv: unknown variable")

// ErrNotInitialized is returned by Randomize/RandomizeWith on a Randomized
// that Init has never been called on.
var ErrNotInitialized = errors.New("crv: Randomized.Init was never called")
