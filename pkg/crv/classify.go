package crv

import (
	"reflect"

	"github.com/gitrdm/cocotbgo/pkg/solver"
	"github.com/pkg/errors"
)

// ErrClassification is returned when a function passed to AddConstraint
// cannot be classified as either a hard constraint or a distribution.
var ErrClassification = errors.New("crv: cannot classify constraint function")

var valuesType = reflect.TypeOf(Values{})
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// kind distinguishes a classified predicate's role.
type kind int

const (
	kindHard kind = iota
	kindDistribution
)

// classify inspects fn's reflected signature and returns a normalized
// (bool, error) or (float64, error) closure plus which kind it is. fn must
// take a single crv.Values argument and return either a bool or a numeric
// type, optionally followed by an error.
func classify(fn interface{}) (kind, func(Values) (bool, error), func(Values) (float64, error), error) {
	v := reflect.ValueOf(fn)
	t := v.Type()

	if t.Kind() != reflect.Func || t.NumIn() != 1 || !t.In(0).AssignableTo(valuesType) {
		return 0, nil, nil, errors.Wrapf(ErrClassification, "expected func(crv.Values) ..., got %s", t)
	}
	if t.NumOut() < 1 || t.NumOut() > 2 {
		return 0, nil, nil, errors.Wrapf(ErrClassification, "expected 1 or 2 return values, got %d", t.NumOut())
	}
	if t.NumOut() == 2 && !t.Out(1).AssignableTo(errorType) {
		return 0, nil, nil, errors.Wrapf(ErrClassification, "second return value must be error, got %s", t.Out(1))
	}

	call := func(a Values) ([]reflect.Value, error) {
		out := v.Call([]reflect.Value{reflect.ValueOf(a)})
		if len(out) == 2 && !out[1].IsNil() {
			return out, out[1].Interface().(error)
		}
		return out, nil
	}

	switch t.Out(0).Kind() {
	case reflect.Bool:
		return kindHard, func(a Values) (bool, error) {
			out, err := call(a)
			if err != nil {
				return false, err
			}
			return out[0].Bool(), nil
		}, nil, nil

	case reflect.Float64, reflect.Float32, reflect.Int, reflect.Int64, reflect.Int32:
		return kindDistribution, nil, func(a Values) (float64, error) {
			out, err := call(a)
			if err != nil {
				return 0, err
			}
			return toFloat(out[0]), nil
		}, nil

	default:
		return 0, nil, nil, errors.Wrapf(ErrClassification, "unsupported return kind %s", t.Out(0).Kind())
	}
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float64, reflect.Float32:
		return v.Float()
	default:
		return float64(v.Int())
	}
}

// Values is the assignment view a constraint or distribution function
// reads: current values for its declared variables plus, at the caller's
// discretion, any non-random object fields the predicate also names.
type Values = solver.Assignment
