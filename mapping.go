package mapper

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/goccy/go-json"
)

// PairOrigin records which rule selected a field pair.
type PairOrigin int

const (
	OriginName     PairOrigin = iota // same name, identical type
	OriginTag                        // destination field tagged with the source field name
	OriginExplicit                   // registered through With or WithConverter
)

func (o PairOrigin) String() string {
	switch o {
	case OriginName:
		return "name"
	case OriginTag:
		return "tag"
	case OriginExplicit:
		return "explicit"
	}
	return fmt.Sprintf("PairOrigin(%d)", int(o))
}

// FieldPair is a single (source field, destination field) correspondence.
type FieldPair struct {
	From   string
	To     string
	Origin PairOrigin

	src  *fieldInfo
	dst  *fieldInfo
	conv ConverterFunc
}

// HasConverter reports whether values pass through a ConverterFunc.
func (p FieldPair) HasConverter() bool { return p.conv != nil }

// TypeMapping is a declared pairing of a source and destination struct type and
// the field pairs between them. Pairs are keyed by destination field; a later
// rule replaces an earlier pair for the same destination field.
type TypeMapping struct {
	src, dst         reflect.Type
	srcMeta, dstMeta *structMetadata

	mu     sync.Mutex
	pairs  *linkedhashmap.Map // dst field name -> FieldPair
	err    error
	sealed bool

	compiled atomic.Value // holds copyFunc
}

func newTypeMapping(srcMeta, dstMeta *structMetadata) *TypeMapping {
	tm := &TypeMapping{
		src:     srcMeta.typ,
		dst:     dstMeta.typ,
		srcMeta: srcMeta,
		dstMeta: dstMeta,
		pairs:   linkedhashmap.New(),
	}
	for _, p := range findMatchingPairs(srcMeta, dstMeta) {
		tm.pairs.Put(p.To, p)
	}
	return tm
}

// Source returns the source struct type.
func (tm *TypeMapping) Source() reflect.Type { return tm.src }

// Destination returns the destination struct type.
func (tm *TypeMapping) Destination() reflect.Type { return tm.dst }

// With pairs srcField with dstField explicitly, overriding name and tag matches
// for dstField. Both fields must exist and have identical types.
func (tm *TypeMapping) With(srcField, dstField string) *TypeMapping {
	return tm.with(srcField, dstField, nil)
}

// WithConverter pairs srcField with dstField and routes each value through fn.
// The converter's result must be assignable to the destination field.
func (tm *TypeMapping) WithConverter(srcField, dstField string, fn ConverterFunc) *TypeMapping {
	if fn == nil {
		tm.fail(fmt.Errorf("nil converter for %s -> %s: %w", srcField, dstField, ErrInvalidConverter))
		return tm
	}
	return tm.with(srcField, dstField, fn)
}

// Ignore drops any pair targeting dstField.
func (tm *TypeMapping) Ignore(dstField string) *TypeMapping {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.sealed {
		tm.setErr(fmt.Errorf("ignoring %s: %w", dstField, ErrMappingSealed))
		return tm
	}
	if _, ok := tm.dstMeta.fieldsByName[dstField]; !ok {
		tm.setErr(fmt.Errorf("%w: %s has no field %s", ErrUnknownField, tm.dst, dstField))
		return tm
	}
	tm.pairs.Remove(dstField)
	return tm
}

func (tm *TypeMapping) with(srcField, dstField string, fn ConverterFunc) *TypeMapping {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.sealed {
		tm.setErr(fmt.Errorf("pairing %s -> %s: %w", srcField, dstField, ErrMappingSealed))
		return tm
	}
	sf, ok := tm.srcMeta.field(srcField)
	if !ok {
		tm.setErr(fmt.Errorf("%w: %s has no field %s", ErrUnknownField, tm.src, srcField))
		return tm
	}
	df, ok := tm.dstMeta.field(dstField)
	if !ok {
		tm.setErr(fmt.Errorf("%w: %s has no field %s", ErrUnknownField, tm.dst, dstField))
		return tm
	}
	if fn == nil && sf.typ != df.typ {
		tm.setErr(fmt.Errorf("pairing %s.%s (%s) with %s.%s (%s): %w", tm.src, sf.name, sf.typ, tm.dst, df.name, df.typ, ErrTypeMismatch))
		return tm
	}
	tm.pairs.Put(df.name, FieldPair{From: sf.name, To: df.name, Origin: OriginExplicit, src: sf, dst: df, conv: fn})
	return tm
}

func (tm *TypeMapping) fail(err error) {
	tm.mu.Lock()
	tm.setErr(err)
	tm.mu.Unlock()
}

// setErr keeps the first error; callers hold tm.mu.
func (tm *TypeMapping) setErr(err error) {
	if tm.err == nil {
		tm.err = err
	}
}

// Err returns the first configuration error recorded on the mapping.
func (tm *TypeMapping) Err() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.err
}

// Pairs returns the field pairs in destination-field insertion order.
func (tm *TypeMapping) Pairs() []FieldPair {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.pairsLocked()
}

func (tm *TypeMapping) pairsLocked() []FieldPair {
	vals := tm.pairs.Values()
	out := make([]FieldPair, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(FieldPair))
	}
	return out
}

// copier returns the compiled copy function for strategy s, compiling and
// sealing the mapping on first use.
func (tm *TypeMapping) copier(s Strategy) (copyFunc, error) {
	if fn, ok := tm.compiled.Load().(copyFunc); ok {
		return fn, nil
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if fn, ok := tm.compiled.Load().(copyFunc); ok {
		return fn, nil
	}
	if tm.err != nil {
		return nil, tm.err
	}
	fn, err := s.compile(tm, tm.pairsLocked())
	if err != nil {
		return nil, err
	}
	tm.sealed = true
	tm.compiled.Store(fn)
	return fn, nil
}

type pairJSON struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Type      string `json:"type"`
	Origin    string `json:"origin"`
	Converter bool   `json:"converter,omitempty"`
}

type mappingJSON struct {
	Source      string     `json:"source"`
	Destination string     `json:"destination"`
	Pairs       []pairJSON `json:"pairs"`
	Error       string     `json:"error,omitempty"`
}

func (tm *TypeMapping) plan() mappingJSON {
	out := mappingJSON{Source: tm.src.String(), Destination: tm.dst.String(), Pairs: []pairJSON{}}
	for _, p := range tm.Pairs() {
		out.Pairs = append(out.Pairs, pairJSON{From: p.From, To: p.To, Type: p.dst.typ.String(), Origin: p.Origin.String(), Converter: p.conv != nil})
	}
	if err := tm.Err(); err != nil {
		out.Error = err.Error()
	}
	return out
}

// MarshalJSON exports the mapping plan.
func (tm *TypeMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(tm.plan())
}
