package mapper

import (
	"reflect"
	"strings"
)

// ignoreTagKey marks fields excluded from matching on either side: `mapper:"-"` or `mapper:"ignore"`.
const ignoreTagKey = "mapper"

type fieldInfo struct {
	index    []int
	name     string
	typ      reflect.Type
	mapsFrom string
	ignore   bool
	// offset is the byte offset from the start of the root struct; only meaningful when direct is true.
	offset uintptr
	// direct is false when the index path goes through an embedded pointer.
	direct bool
}

type structMetadata struct {
	typ          reflect.Type
	fields       []fieldInfo
	fieldsByName map[string]*fieldInfo
}

// field returns the exported, non-ignored field with the given name.
func (m *structMetadata) field(name string) (*fieldInfo, bool) {
	fi, ok := m.fieldsByName[name]
	if !ok || fi.ignore {
		return nil, false
	}
	return fi, true
}

func (m *Mapper) getOrBuildMetadata(typ reflect.Type) *structMetadata {
	if cached, ok := m.metadataCache.Load(typ); ok {
		return cached.(*structMetadata)
	}
	fc := countFields(typ, nil)
	meta := &structMetadata{typ: typ, fields: make([]fieldInfo, 0, fc), fieldsByName: make(map[string]*fieldInfo, fc)}
	m.buildFieldMetadata(typ, meta, nil, 0, true, []reflect.Type{typ})
	for i := range meta.fields {
		fi := &meta.fields[i]
		// shallowest definition wins, like Go's own promotion rules
		if prev, ok := meta.fieldsByName[fi.name]; ok && len(prev.index) <= len(fi.index) {
			continue
		}
		meta.fieldsByName[fi.name] = fi
	}
	actual, _ := m.metadataCache.LoadOrStore(typ, meta)
	return actual.(*structMetadata)
}

func countFields(typ reflect.Type, stack []reflect.Type) int {
	stack = append(stack[:len(stack):len(stack)], typ)
	c := 0
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if !onStack(stack, ft) {
					c += countFields(ft, stack)
				}
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		c++
	}
	return c
}

// buildFieldMetadata flattens typ into meta. stack holds the structs being
// expanded so a struct embedding a pointer to itself terminates.
func (m *Mapper) buildFieldMetadata(typ reflect.Type, meta *structMetadata, prefix []int, base uintptr, direct bool, stack []reflect.Type) {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		tag := f.Tag.Get(ignoreTagKey)
		ignore := tag == "ignore" || tag == "-"
		if f.Anonymous && !ignore {
			ft := f.Type
			viaPtr := false
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
				viaPtr = true
			}
			if ft.Kind() == reflect.Struct {
				if onStack(stack, ft) {
					continue
				}
				next := append(stack[:len(stack):len(stack)], ft)
				if viaPtr {
					m.buildFieldMetadata(ft, meta, idx, 0, false, next)
				} else {
					m.buildFieldMetadata(ft, meta, idx, base+f.Offset, direct, next)
				}
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		var mapsFrom string
		if m.options.TagMatching {
			mapsFrom = strings.TrimSpace(f.Tag.Get(m.options.TagKey))
		}
		meta.fields = append(meta.fields, fieldInfo{
			index:    idx,
			name:     f.Name,
			typ:      f.Type,
			mapsFrom: mapsFrom,
			ignore:   ignore,
			offset:   base + f.Offset,
			direct:   direct,
		})
	}
}

func onStack(stack []reflect.Type, t reflect.Type) bool {
	for _, s := range stack {
		if s == t {
			return true
		}
	}
	return false
}

// safeFieldByIndex walks index without panicking on nil embedded pointers.
func safeFieldByIndex(val reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val, true
}

// allocFieldByIndex walks index, allocating nil embedded pointers along the way.
// It reports false when an embedded pointer is nil and cannot be set (unexported embedding).
func allocFieldByIndex(val reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Ptr {
			if val.IsNil() {
				if !val.CanSet() {
					return reflect.Value{}, false
				}
				val.Set(reflect.New(val.Type().Elem()))
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val, true
}
