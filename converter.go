package mapper

import (
	"fmt"
	"reflect"
)

// ConverterFunc converts a source field value into a destination field value.
// It is attached to an explicit field pair with TypeMapping.WithConverter.
type ConverterFunc func(src interface{}) (interface{}, error)

// ComposeConverters runs fns in order, feeding each result to the next.
// Nil entries are skipped. The first error stops the chain and names the
// failing step; a nil result ends it early and zeroes the destination field.
func ComposeConverters(fns ...ConverterFunc) ConverterFunc {
	chain := make([]ConverterFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			chain = append(chain, fn)
		}
	}
	return func(src interface{}) (interface{}, error) {
		cur := src
		for i, fn := range chain {
			out, err := fn(cur)
			if err != nil {
				return nil, fmt.Errorf("converter %d: %w", i, err)
			}
			if out == nil {
				return nil, nil
			}
			cur = out
		}
		return cur, nil
	}
}

// MapString returns a ConverterFunc applying f to values of any string kind.
// Named string types keep their type. Other values pass through unchanged.
func MapString(f func(string) string) ConverterFunc {
	return func(src interface{}) (interface{}, error) {
		if s, ok := src.(string); ok {
			return f(s), nil
		}
		v := reflect.ValueOf(src)
		if v.Kind() != reflect.String {
			return src, nil
		}
		return reflect.ValueOf(f(v.String())).Convert(v.Type()).Interface(), nil
	}
}

func applyConverter(dstField reflect.Value, fn ConverterFunc, srcField reflect.Value, fieldName string) error {
	converted, err := fn(srcField.Interface())
	if err != nil {
		return fmt.Errorf("converting field %s: %w", fieldName, err)
	}
	if converted == nil {
		dstField.Set(reflect.Zero(dstField.Type()))
		return nil
	}
	cv := reflect.ValueOf(converted)
	if !cv.Type().AssignableTo(dstField.Type()) {
		return fmt.Errorf("converter for field %s returned type %s, expected %s: %w", fieldName, cv.Type(), dstField.Type(), ErrTypeMismatch)
	}
	dstField.Set(cv)
	return nil
}
