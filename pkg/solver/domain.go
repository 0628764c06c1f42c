package solver

import (
	"fmt"

	"github.com/pkg/errors"
)

// Domain is an ordered, finite set of hashable values a variable may take.
// Values keep their declared order: iteration, string rendering, and
// "first matching value" semantics all honor it. Domain values must be
// valid Go map keys (comparable); non-comparable values (e.g. slices) are
// rejected at construction with ErrUnhashableValue.
//
// Domain is immutable: every narrowing operation returns a new Domain,
// sharing the underlying value slice with its parent so narrowing a
// thousand-value domain down to one element is O(words), not O(n).
type Domain struct {
	values []interface{}
	index  map[interface{}]int
	live   indexSet
}

// ErrUnhashableValue is returned by NewDomain when a candidate domain value
// cannot be used as a map key.
var ErrUnhashableValue = errors.New("solver: domain value is not hashable")

// ErrEmptyDomain is returned where an operation requires at least one
// candidate value and none remain.
var ErrEmptyDomain = errors.New("solver: domain is empty")

// NewDomain builds a Domain from an ordered list of values. Duplicate values
// are rejected: a domain must enumerate distinct candidates.
func NewDomain(values ...interface{}) (Domain, error) {
	idx := make(map[interface{}]int, len(values))
	for i, v := range values {
		if !isHashable(v) {
			return Domain{}, errors.Wrapf(ErrUnhashableValue, "value %v (%T)", v, v)
		}
		if _, dup := idx[v]; dup {
			return Domain{}, errors.Errorf("solver: duplicate domain value %v", v)
		}
		idx[v] = i
	}
	cp := make([]interface{}, len(values))
	copy(cp, values)
	return Domain{values: cp, index: idx, live: newIndexSet(len(cp))}, nil
}

// MustDomain is NewDomain but panics on error, for use building literal
// domains in tests and examples where the values are known good.
func MustDomain(values ...interface{}) Domain {
	d, err := NewDomain(values...)
	if err != nil {
		panic(err)
	}
	return d
}

func isHashable(v interface{}) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	m := map[interface{}]struct{}{}
	m[v] = struct{}{}
	return true
}

// Count returns the number of values still present in the domain.
func (d Domain) Count() int { return d.live.count() }

// Values returns the remaining values in declared order.
func (d Domain) Values() []interface{} {
	out := make([]interface{}, 0, d.live.count())
	d.live.each(func(i int) { out = append(out, d.values[i]) })
	return out
}

// Has reports whether v is still present in the domain.
func (d Domain) Has(v interface{}) bool {
	i, ok := d.index[v]
	if !ok {
		return false
	}
	return d.live.has(i)
}

// Remove returns a new Domain with v excluded. Removing an absent value is
// a no-op.
func (d Domain) Remove(v interface{}) Domain {
	i, ok := d.index[v]
	if !ok {
		return d
	}
	return Domain{values: d.values, index: d.index, live: d.live.without(i)}
}

// Restrict returns a new Domain containing only values present in both d
// and allowed. The Solver's forward checking uses it to narrow a variable's
// domain to values consistent with the current partial assignment.
func (d Domain) Restrict(allowed func(interface{}) bool) Domain {
	var idx []int
	d.live.each(func(i int) {
		if allowed(d.values[i]) {
			idx = append(idx, i)
		}
	})
	live := newIndexSetFrom(len(d.values), idx).intersect(d.live)
	return Domain{values: d.values, index: d.index, live: live}
}

// Equal reports whether d and other have the same values remaining. Both
// must derive from the same NewDomain call (directly or through narrowing),
// since indices are only comparable within that shared value order.
func (d Domain) Equal(other Domain) bool {
	return d.live.equal(other.live)
}

// IsSingleton reports whether exactly one value remains.
func (d Domain) IsSingleton() bool { return d.live.isSingleton() }

// SingletonValue returns the sole remaining value. Panics if Count() != 1.
func (d Domain) SingletonValue() interface{} {
	i := d.live.singleton()
	if i < 0 {
		panic("solver: SingletonValue called on non-singleton domain")
	}
	return d.values[i]
}

// String renders the domain's remaining values for diagnostics.
func (d Domain) String() string {
	return fmt.Sprintf("%v", d.Values())
}
