package crv

import (
	"reflect"

	"github.com/pkg/errors"
)

// structValues reads every exported field of the struct self points to
// into a map keyed by field name, matched directly against the field name
// rather than a struct tag, since crv variable names are chosen by the
// caller to equal Go field names.
func structValues(self interface{}) (map[string]interface{}, error) {
	v := reflect.ValueOf(self)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, errors.New("crv: Init requires a non-nil pointer to a struct")
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return nil, errors.New("crv: Init requires a pointer to a struct")
	}

	out := make(map[string]interface{})
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		if f.Anonymous && f.Type == randomizedType {
			continue
		}
		out[f.Name] = elem.Field(i).Interface()
	}
	return out, nil
}

var randomizedType = reflect.TypeOf(Randomized{})

// bindFields writes values into self's exported fields by name, converting
// each value to the field's type when it is not already assignable.
func bindFields(self interface{}, values map[string]interface{}) error {
	v := reflect.ValueOf(self).Elem()
	for name, val := range values {
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			continue // non-random variable with no matching field is fine
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(f.Type()) {
			if !rv.Type().ConvertibleTo(f.Type()) {
				return errors.Errorf("crv: cannot assign %v (%T) to field %s (%s)", val, val, name, f.Type())
			}
			rv = rv.Convert(f.Type())
		}
		f.Set(rv)
	}
	return nil
}
