package mapper

import "reflect"

type fieldCopier func(dst, src reflect.Value) error

// compileClosures builds one specialised closure per pair up front so the call
// path does no per-field type dispatch.
func compileClosures(pairs []FieldPair) copyFunc {
	steps := make([]fieldCopier, 0, len(pairs))
	for i := range pairs {
		steps = append(steps, compilePair(pairs[i]))
	}
	return func(dst, src reflect.Value) error {
		for _, step := range steps {
			if err := step(dst, src); err != nil {
				return err
			}
		}
		return nil
	}
}

func compilePair(p FieldPair) fieldCopier {
	read := compileRead(p.src.index)
	write := compileWrite(p.dst.index)
	if p.conv != nil {
		conv, name := p.conv, p.To
		return func(dst, src reflect.Value) error {
			sv, ok := read(src)
			if !ok {
				return nil
			}
			dv, ok := write(dst)
			if !ok {
				return nil
			}
			return applyConverter(dv, conv, sv, name)
		}
	}
	assign := compileAssign(p.dst.typ)
	return func(dst, src reflect.Value) error {
		sv, ok := read(src)
		if !ok {
			return nil
		}
		dv, ok := write(dst)
		if !ok {
			return nil
		}
		assign(dv, sv)
		return nil
	}
}

func compileRead(index []int) func(reflect.Value) (reflect.Value, bool) {
	if len(index) == 1 {
		i := index[0]
		return func(v reflect.Value) (reflect.Value, bool) { return v.Field(i), true }
	}
	return func(v reflect.Value) (reflect.Value, bool) { return safeFieldByIndex(v, index) }
}

func compileWrite(index []int) func(reflect.Value) (reflect.Value, bool) {
	if len(index) == 1 {
		i := index[0]
		return func(v reflect.Value) (reflect.Value, bool) { return v.Field(i), true }
	}
	return func(v reflect.Value) (reflect.Value, bool) { return allocFieldByIndex(v, index) }
}

// compileAssign picks a setter by kind. The typed setters work for named types
// too since both sides share one identical type.
func compileAssign(t reflect.Type) func(dst, src reflect.Value) {
	switch t.Kind() {
	case reflect.String:
		return func(dst, src reflect.Value) { dst.SetString(src.String()) }
	case reflect.Bool:
		return func(dst, src reflect.Value) { dst.SetBool(src.Bool()) }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(dst, src reflect.Value) { dst.SetInt(src.Int()) }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(dst, src reflect.Value) { dst.SetUint(src.Uint()) }
	case reflect.Float32, reflect.Float64:
		return func(dst, src reflect.Value) { dst.SetFloat(src.Float()) }
	case reflect.Complex64, reflect.Complex128:
		return func(dst, src reflect.Value) { dst.SetComplex(src.Complex()) }
	}
	return func(dst, src reflect.Value) { dst.Set(src) }
}
