package mapper

import (
	"fmt"
	"reflect"
)

func compileReflection(pairs []FieldPair) copyFunc {
	return func(dst, src reflect.Value) error {
		for i := range pairs {
			p := &pairs[i]
			srcField, ok := safeFieldByIndex(src, p.src.index)
			if !ok {
				continue
			}
			dstField, ok := allocFieldByIndex(dst, p.dst.index)
			if !ok {
				continue
			}
			if err := assignField(dstField, srcField, p); err != nil {
				return err
			}
		}
		return nil
	}
}

func assignField(dstField, srcField reflect.Value, p *FieldPair) error {
	if !dstField.CanSet() {
		return fmt.Errorf("cannot set field %s (unexported or unsettable)", p.To)
	}
	if p.conv != nil {
		return applyConverter(dstField, p.conv, srcField, p.To)
	}
	dstField.Set(srcField)
	return nil
}
