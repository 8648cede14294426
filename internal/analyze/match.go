package analyze

import (
	"fmt"
	"go/types"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Pair origins, named like the runtime mapper's PairOrigin values.
const (
	OriginName     = "name"
	OriginTag      = "tag"
	OriginExplicit = "explicit"
)

// Pair is one source field copied into one destination field.
type Pair struct {
	From   *Field
	To     *Field
	Origin string
}

// MatchOptions configures MatchFields.
type MatchOptions struct {
	TagKey      string
	TagMatching bool
	// Package is where the generated code is declared.
	Package *types.Package
	With    []WithConfig
	Ignore  []string
}

// MatchFields pairs the fields of src and dst with the runtime rules: for each
// destination field in declaration order a same-typed tag match, else a
// same-named same-typed field; then explicit With pairs override in place and
// Ignore drops destination fields.
func MatchFields(src, dst *types.Struct, opts MatchOptions) ([]Pair, error) {
	if opts.TagKey == "" {
		opts.TagKey = DefaultTagKey
	}
	fo := fieldOptions{tagKey: opts.TagKey, tagMatching: opts.TagMatching, from: opts.Package}
	sf := flatten(src, fo)
	df := flatten(dst, fo)

	pairs := linkedhashmap.New()
	for _, d := range df.Fields {
		if d.Ignore || !df.visible(d) {
			continue
		}
		if d.MapsFrom != "" {
			if s, ok := sf.Lookup(d.MapsFrom); ok && types.Identical(s.Type, d.Type) {
				pairs.Put(d.Name, Pair{From: s, To: d, Origin: OriginTag})
				continue
			}
		}
		if s, ok := sf.Lookup(d.Name); ok && types.Identical(s.Type, d.Type) {
			pairs.Put(d.Name, Pair{From: s, To: d, Origin: OriginName})
		}
	}

	for _, w := range opts.With {
		s, ok := sf.Lookup(w.From)
		if !ok {
			return nil, fmt.Errorf("with %s -> %s: unknown source field %s", w.From, w.To, w.From)
		}
		d, ok := df.Lookup(w.To)
		if !ok {
			return nil, fmt.Errorf("with %s -> %s: unknown destination field %s", w.From, w.To, w.To)
		}
		if !types.Identical(s.Type, d.Type) {
			return nil, fmt.Errorf("with %s -> %s: field types differ (%s vs %s)", w.From, w.To, s.Type, d.Type)
		}
		pairs.Put(d.Name, Pair{From: s, To: d, Origin: OriginExplicit})
	}

	for _, name := range opts.Ignore {
		if _, ok := df.byName[name]; !ok {
			return nil, fmt.Errorf("ignore %s: unknown destination field", name)
		}
		pairs.Remove(name)
	}

	out := make([]Pair, 0, pairs.Size())
	for _, v := range pairs.Values() {
		p := v.(Pair)
		// invalid types are identical to each other; they come from type errors
		if !validType(p.From.Type) || !validType(p.To.Type) {
			return nil, fmt.Errorf("%s -> %s: field type is invalid", p.From.Name, p.To.Name)
		}
		out = append(out, p)
	}
	return out, nil
}

func validType(t types.Type) bool {
	switch t := t.(type) {
	case *types.Basic:
		return t.Kind() != types.Invalid
	case *types.Pointer:
		return validType(t.Elem())
	case *types.Slice:
		return validType(t.Elem())
	case *types.Array:
		return validType(t.Elem())
	case *types.Map:
		return validType(t.Key()) && validType(t.Elem())
	case *types.Chan:
		return validType(t.Elem())
	}
	return true
}
