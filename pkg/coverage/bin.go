package coverage

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/pkg/errors"
)

// Args is the named-argument view a sampling call delivers to every bound
// coverage primitive.
type Args map[string]interface{}

// binEntry is one declared bin on a CoverPoint or CoverCross.
type binEntry struct {
	value interface{}
	label string
	hits  int
	// hit is true once this bin's hits have reached at_least, used to fire
	// the bins callback and contribute new_hits exactly once on the
	// crossing edge.
	hit bool
	key  uint64
}

// binKey computes a stable hash for v so it can be used as a map key even
// when v itself is not comparable (a slice or tuple-like bin value).
func binKey(v interface{}) (uint64, error) {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, errors.Wrapf(ErrUnhashableBin, "%v: %v", v, err)
	}
	return h, nil
}

// binLabel derives the display label for a bin: its declared label if any,
// else the natural string form of its value.
func binLabel(label string, value interface{}) string {
	if label != "" {
		return label
	}
	return fmtValue(value)
}

// fmtValue renders a bin value the same way everywhere it needs to become
// a string: a default label, an export row's Value column, or a merge-time
// lookup key.
func fmtValue(v interface{}) string { return fmt.Sprintf("%v", v) }

// MatchFunc extracts the comparison value from a sample's arguments.
type MatchFunc func(Args) (interface{}, error)

// RelFunc decides whether a transformed sample value matches a bin value.
type RelFunc func(value, bin interface{}) bool

// IdentityXF returns the named argument unchanged, the BinMatcher default.
func IdentityXF(vname string) MatchFunc {
	return func(a Args) (interface{}, error) {
		v, ok := a[vname]
		if !ok {
			return nil, errors.Wrapf(ErrContract, "missing argument %q", vname)
		}
		return v, nil
	}
}

// EqualityRel is the BinMatcher default relation.
func EqualityRel(value, bin interface{}) bool {
	return fmtValue(value) == fmtValue(bin)
}

// BinMatcher decides which declared bins a sampled value matches. It is the
// shared primitive behind CoverPoint and CoverCross sampling.
type BinMatcher struct {
	xf  MatchFunc
	rel RelFunc
	inj bool
}

// NewBinMatcher builds a matcher. A nil xf or rel falls back to the
// BinMatcher defaults (identity on vname, equality).
func NewBinMatcher(xf MatchFunc, rel RelFunc, vname string, inj bool) *BinMatcher {
	if xf == nil {
		xf = IdentityXF(vname)
	}
	if rel == nil {
		rel = EqualityRel
	}
	return &BinMatcher{xf: xf, rel: rel, inj: inj}
}

// Match returns the indices into bins that match args, honoring
// injectivity: at most one index if inj, else every matching index in
// declared order.
func (m *BinMatcher) Match(args Args, bins []binEntry) ([]int, error) {
	v, err := m.xf(args)
	if err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, nil
	}
	var matched []int
	for i := range bins {
		if m.rel(v, bins[i].value) {
			matched = append(matched, i)
			if m.inj {
				break
			}
		}
	}
	return matched, nil
}
