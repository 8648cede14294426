package mapper

import "reflect"

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// Register declares a mapping from S to D on m.
func Register[S, D any](m *Mapper, configure ...func(*TypeMapping)) (*TypeMapping, error) {
	st, err := structType(reflect.TypeFor[S]())
	if err != nil {
		return nil, err
	}
	dt, err := structType(reflect.TypeFor[D]())
	if err != nil {
		return nil, err
	}
	tm, err := m.register(st, dt)
	if err != nil {
		return nil, err
	}
	for _, fn := range configure {
		fn(tm)
	}
	return tm, nil
}

// Into copies src into dst with the mapping registered for D.
func Into[D any](m *Mapper, dst *D, src any) error { return m.Into(dst, src) }

// MapTo returns a freshly allocated D populated from src.
func MapTo[D any](m *Mapper, src any) (*D, error) {
	var d D
	if err := m.Into(&d, src); err != nil {
		return nil, err
	}
	return &d, nil
}

// Map returns a fresh D populated from src.
func Map[D any](m *Mapper, src any) (D, error) {
	var d D
	err := m.Into(&d, src)
	return d, err
}
