package mapper

import (
	"fmt"
	"reflect"
	"sync"
)

var generated = struct {
	mu    sync.RWMutex
	funcs map[pairKey]copyFunc
}{funcs: make(map[pairKey]copyFunc)}

// RegisterGenerated installs a mapping function produced by cmd/mapgen for the
// S to D pair. Generated files call it from init with the method expression of
// the generated From method, e.g. RegisterGenerated((*PersonView).FromPerson).
// A later registration for the same pair replaces the earlier one.
func RegisterGenerated[S, D any](fn func(*D, S) *D) {
	key := pairKey{reflect.TypeFor[S](), reflect.TypeFor[D]()}
	generated.mu.Lock()
	defer generated.mu.Unlock()
	generated.funcs[key] = func(dst, src reflect.Value) error {
		fn(dst.Addr().Interface().(*D), src.Interface().(S))
		return nil
	}
}

// HasGenerated reports whether a generated function exists for the S to D pair.
func HasGenerated[S, D any]() bool {
	generated.mu.RLock()
	defer generated.mu.RUnlock()
	_, ok := generated.funcs[pairKey{reflect.TypeFor[S](), reflect.TypeFor[D]()}]
	return ok
}

func lookupGenerated(tm *TypeMapping, pairs []FieldPair) (copyFunc, error) {
	for _, p := range pairs {
		if p.conv != nil {
			return nil, fmt.Errorf("%w: field %s", ErrGeneratedOverrides, p.To)
		}
	}
	generated.mu.RLock()
	fn, ok := generated.funcs[pairKey{tm.src, tm.dst}]
	generated.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w from %s to %s; run go generate with cmd/mapgen", ErrNotGenerated, tm.src, tm.dst)
	}
	return fn, nil
}
