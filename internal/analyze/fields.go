package analyze

import (
	"go/types"
	"reflect"
	"strings"
)

const ignoreTagKey = "mapper"

// Step is one embedded struct traversed on the way to a promoted field.
type Step struct {
	Name    string
	Pointer bool       // embedded as *T
	Type    types.Type // T, without the pointer
}

// Field is a struct field as seen by the matcher, with embedded structs flattened.
type Field struct {
	Name     string
	Type     types.Type
	Path     []Step
	MapsFrom string
	Ignore   bool
}

// HasPointerPath reports whether reaching the field dereferences an embedded pointer.
func (f *Field) HasPointerPath() bool {
	for _, s := range f.Path {
		if s.Pointer {
			return true
		}
	}
	return false
}

// Selector returns the full selector from root, e.g. "from.Contact.Email".
func (f *Field) Selector(root string) string {
	var b strings.Builder
	b.WriteString(root)
	for _, s := range f.Path {
		b.WriteByte('.')
		b.WriteString(s.Name)
	}
	b.WriteByte('.')
	b.WriteString(f.Name)
	return b.String()
}

// Struct is the flattened field set of a struct type.
type Struct struct {
	Fields []*Field
	byName map[string]*Field
}

// Lookup returns the visible, non-ignored field called name.
func (s *Struct) Lookup(name string) (*Field, bool) {
	f, ok := s.byName[name]
	if !ok || f.Ignore {
		return nil, false
	}
	return f, true
}

func (s *Struct) visible(f *Field) bool { return s.byName[f.Name] == f }

type fieldOptions struct {
	tagKey      string
	tagMatching bool
	// from is the package the generated code lives in; unexported names
	// elsewhere are unreachable.
	from *types.Package
}

// flatten collects the fields of st the same way the runtime mapper builds its
// metadata: exported fields only, embedded structs inlined, shallowest wins.
func flatten(st *types.Struct, opts fieldOptions) *Struct {
	s := &Struct{byName: make(map[string]*Field)}
	collect(st, opts, nil, s)
	for _, f := range s.Fields {
		if prev, ok := s.byName[f.Name]; ok && len(prev.Path) <= len(f.Path) {
			continue
		}
		s.byName[f.Name] = f
	}
	return s
}

func collect(st *types.Struct, opts fieldOptions, path []Step, s *Struct) {
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		ignoreTag := tag.Get(ignoreTagKey)
		ignore := ignoreTag == "-" || ignoreTag == "ignore"
		if v.Embedded() && !ignore {
			t, ptr := v.Type(), false
			if p, ok := t.(*types.Pointer); ok {
				t, ptr = p.Elem(), true
			}
			if inner, ok := t.Underlying().(*types.Struct); ok {
				if accessible(v, opts.from) && !onPath(path, t) {
					next := append(append([]Step(nil), path...), Step{Name: v.Name(), Pointer: ptr, Type: t})
					collect(inner, opts, next, s)
				}
				continue
			}
		}
		if !v.Exported() {
			continue
		}
		var mapsFrom string
		if opts.tagMatching {
			mapsFrom = strings.TrimSpace(tag.Get(opts.tagKey))
		}
		s.Fields = append(s.Fields, &Field{
			Name:     v.Name(),
			Type:     v.Type(),
			Path:     path,
			MapsFrom: mapsFrom,
			Ignore:   ignore,
		})
	}
}

func accessible(v *types.Var, from *types.Package) bool {
	if v.Exported() || from == nil || v.Pkg() == nil {
		return true
	}
	return v.Pkg().Path() == from.Path()
}

// onPath guards against self-embedding through pointers, e.g. type Node struct{ *Node }.
func onPath(path []Step, t types.Type) bool {
	for _, s := range path {
		if types.Identical(s.Type, t) {
			return true
		}
	}
	return false
}
