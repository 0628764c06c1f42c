package coverage

import "github.com/pkg/errors"

// ErrDuplicateName is returned by DB.Add when an item is already registered
// under the given name.
var ErrDuplicateName = errors.New("coverage: duplicate item name")

// ErrUnhashableBin is returned when a bin value cannot be hashed for use as
// a coverage key (for example a value containing a function or channel).
var ErrUnhashableBin = errors.New("coverage: unhashable bin value")

// ErrUnknownName is returned by DB.Get when no item is registered under the
// given name.
var ErrUnknownName = errors.New("coverage: unknown item name")

// ErrContract is returned when a sample's arguments are incompatible with a
// leaf's declared xf/vname.
var ErrContract = errors.New("coverage: sample argument contract violation")

// ErrReentrant is returned when a callback triggers a sample on the leaf
// that is already mid-update on the same call stack.
var ErrReentrant = errors.New("coverage: reentrant sample on updating leaf")

// ErrExportFormat is returned by Export for an unrecognized format name.
var ErrExportFormat = errors.New("coverage: unrecognized export format")

// ErrMergeMismatch is returned by ImportAndMerge when the structure of the
// imported document does not match the live database.
var ErrMergeMismatch = errors.New("coverage: merge structural mismatch")

// ErrUnknownReference is returned by NewCoverCross when it is given no
// CoverPoints to cross.
var ErrUnknownReference = errors.New("coverage: unknown CoverPoint reference")
