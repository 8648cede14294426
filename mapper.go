package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
)

var (
	ErrNoMapping          = errors.New("mapper: no mapping registered")
	ErrDuplicateMapping   = errors.New("mapper: mapping already registered")
	ErrInvalidSource      = errors.New("mapper: src must be a struct or a non-nil pointer to a struct")
	ErrInvalidDestination = errors.New("mapper: dst must be a non-nil pointer to a struct")
	ErrNotStruct          = errors.New("mapper: not a struct type")
	ErrUnknownField       = errors.New("mapper: unknown field")
	ErrTypeMismatch       = errors.New("mapper: field types differ")
	ErrInvalidConverter   = errors.New("mapper: invalid converter")
	ErrMappingSealed      = errors.New("mapper: mapping already compiled")
	ErrUnknownStrategy    = errors.New("mapper: unknown strategy")
	ErrNotGenerated       = errors.New("mapper: no generated mapper")
	ErrGeneratedOverrides = errors.New("mapper: generated mappers cannot apply runtime converters")
)

// DefaultTagKey is the struct tag naming the source field a destination field maps from.
const DefaultTagKey = "mapsfrom"

// Options configures a Mapper.
type Options struct {
	Strategy    Strategy // copy mechanism used by Build and Into
	TagKey      string   // struct tag consulted for explicit source names
	TagMatching bool     // when false, struct tags never select pairs
}

// Option is a functional option for New.
type Option func(*Options)

// WithStrategy selects the copy mechanism. The default is StrategyReflection.
func WithStrategy(s Strategy) Option { return func(o *Options) { o.Strategy = s } }

// WithTagKey replaces the mapsfrom struct tag key.
func WithTagKey(key string) Option { return func(o *Options) { o.TagKey = key } }

// WithTagMatching turns tag-based pairing on or off.
func WithTagMatching(v bool) Option { return func(o *Options) { o.TagMatching = v } }

type pairKey [2]reflect.Type // [srcType, dstType]

// Mapper holds registered type mappings and copies fields between registered pairs.
// It is safe for concurrent use; the registry is swapped copy-on-write.
type Mapper struct {
	mappings      atomic.Value // holds map[pairKey]*TypeMapping
	regMu         sync.Mutex
	metadataCache sync.Map // map[reflect.Type]*structMetadata
	options       Options
}

// New creates a Mapper. The zero configuration uses StrategyReflection and the mapsfrom tag.
func New(opts ...Option) *Mapper {
	o := Options{Strategy: StrategyReflection, TagKey: DefaultTagKey, TagMatching: true}
	for _, f := range opts {
		f(&o)
	}
	if o.TagKey == "" {
		o.TagKey = DefaultTagKey
	}
	m := &Mapper{options: o}
	m.mappings.Store(map[pairKey]*TypeMapping{})
	return m
}

// Strategy returns the configured mapping strategy.
func (m *Mapper) Strategy() Strategy { return m.options.Strategy }

// Register declares a mapping from src's type to dst's type. Pass example values
// or pointers to them, e.g. Register(Person{}, &PersonView{}).
func (m *Mapper) Register(src, dst any) (*TypeMapping, error) {
	st, err := structType(src)
	if err != nil {
		return nil, fmt.Errorf("registering source: %w", err)
	}
	dt, err := structType(dst)
	if err != nil {
		return nil, fmt.Errorf("registering destination: %w", err)
	}
	return m.register(st, dt)
}

func (m *Mapper) register(st, dt reflect.Type) (*TypeMapping, error) {
	tm := newTypeMapping(m.getOrBuildMetadata(st), m.getOrBuildMetadata(dt))
	if err := m.store(tm); err != nil {
		return nil, err
	}
	return tm, nil
}

// store publishes one or more mappings with a single registry swap.
func (m *Mapper) store(tms ...*TypeMapping) error {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	old := m.mappings.Load().(map[pairKey]*TypeMapping)
	next := make(map[pairKey]*TypeMapping, len(old)+len(tms))
	for k, v := range old {
		next[k] = v
	}
	for _, tm := range tms {
		key := pairKey{tm.src, tm.dst}
		if _, ok := next[key]; ok {
			return fmt.Errorf("%w from %s to %s", ErrDuplicateMapping, tm.src, tm.dst)
		}
		next[key] = tm
	}
	m.mappings.Store(next)
	return nil
}

func (m *Mapper) lookup(st, dt reflect.Type) *TypeMapping {
	return m.mappings.Load().(map[pairKey]*TypeMapping)[pairKey{st, dt}]
}

// Lookup returns the mapping registered for the given source and destination types.
func (m *Mapper) Lookup(src, dst any) (*TypeMapping, bool) {
	st, err := structType(src)
	if err != nil {
		return nil, false
	}
	dt, err := structType(dst)
	if err != nil {
		return nil, false
	}
	tm := m.lookup(st, dt)
	return tm, tm != nil
}

// Mappings returns every registered mapping ordered by source then destination type name.
func (m *Mapper) Mappings() []*TypeMapping {
	reg := m.mappings.Load().(map[pairKey]*TypeMapping)
	out := make([]*TypeMapping, 0, len(reg))
	for _, tm := range reg {
		out = append(out, tm)
	}
	sort.Slice(out, func(i, j int) bool {
		if a, b := out[i].src.String(), out[j].src.String(); a != b {
			return a < b
		}
		return out[i].dst.String() < out[j].dst.String()
	})
	return out
}

// Build compiles every registered mapping with the configured strategy.
// Mappings that fail are reported together; the others remain usable.
// Errors recorded after a mapping was compiled, such as ErrMappingSealed, are
// reported too; the compiled copy stays in use.
func (m *Mapper) Build() error {
	var errs []error
	for _, tm := range m.Mappings() {
		if _, err := tm.copier(m.options.Strategy); err != nil {
			errs = append(errs, fmt.Errorf("building %s to %s: %w", tm.src, tm.dst, err))
			continue
		}
		if err := tm.Err(); err != nil {
			errs = append(errs, fmt.Errorf("building %s to %s: %w", tm.src, tm.dst, err))
		}
	}
	return errors.Join(errs...)
}

// Into copies the paired fields of src into dst. dst must be a non-nil pointer
// to a struct; src may be a struct value or a non-nil pointer to one.
// Mappings not yet built are compiled on first use.
func (m *Mapper) Into(dst, src any) error {
	if dst == nil {
		return ErrInvalidDestination
	}
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Ptr || dstVal.IsNil() || dstVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidDestination, dst)
	}
	dstVal = dstVal.Elem()

	if src == nil {
		return ErrInvalidSource
	}
	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Ptr {
		if srcVal.IsNil() {
			return fmt.Errorf("%w, got nil %T", ErrInvalidSource, src)
		}
		srcVal = srcVal.Elem()
	}
	if srcVal.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidSource, src)
	}

	tm := m.lookup(srcVal.Type(), dstVal.Type())
	if tm == nil {
		return fmt.Errorf("%w from %s to %s", ErrNoMapping, srcVal.Type(), dstVal.Type())
	}
	fn, err := tm.copier(m.options.Strategy)
	if err != nil {
		return fmt.Errorf("mapping %s to %s: %w", tm.src, tm.dst, err)
	}
	return fn(dstVal, srcVal)
}

type mapperJSON struct {
	Strategy string        `json:"strategy"`
	Mappings []mappingJSON `json:"mappings"`
}

// MarshalJSON exports the strategy and every mapping plan.
func (m *Mapper) MarshalJSON() ([]byte, error) {
	out := mapperJSON{Strategy: m.options.Strategy.String(), Mappings: []mappingJSON{}}
	for _, tm := range m.Mappings() {
		out.Mappings = append(out.Mappings, tm.plan())
	}
	return json.Marshal(out)
}

func structType(v any) (reflect.Type, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value: %w", ErrNotStruct)
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: %w", t, ErrNotStruct)
	}
	return t, nil
}
