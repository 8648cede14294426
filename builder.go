package mapper

import (
	"errors"
	"fmt"
)

type builderEntry struct {
	src, dst  any
	configure []func(*TypeMapping)
}

// Builder provides a fluent API to construct a Mapper with options and mappings pre-registered.
type Builder struct {
	opts    []Option
	entries []builderEntry
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder { return &Builder{} }

// WithOptions appends mapper options to the builder.
func (b *Builder) WithOptions(opts ...Option) *Builder { b.opts = append(b.opts, opts...); return b }

// Add declares a mapping from src's type to dst's type. Each configure func runs
// against the new TypeMapping, typically to call With, WithConverter or Ignore.
func (b *Builder) Add(src, dst any, configure ...func(*TypeMapping)) *Builder {
	b.entries = append(b.entries, builderEntry{src: src, dst: dst, configure: configure})
	return b
}

// Build constructs the Mapper, publishes every mapping with a single registry
// swap and compiles them with the configured strategy.
func (b *Builder) Build() (*Mapper, error) {
	m := New(b.opts...)
	tms := make([]*TypeMapping, 0, len(b.entries))
	var errs []error
	for i, e := range b.entries {
		st, err := structType(e.src)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d source: %w", i, err))
			continue
		}
		dt, err := structType(e.dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d destination: %w", i, err))
			continue
		}
		tm := newTypeMapping(m.getOrBuildMetadata(st), m.getOrBuildMetadata(dt))
		for _, fn := range e.configure {
			fn(tm)
		}
		tms = append(tms, tm)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := m.store(tms...); err != nil {
		return nil, err
	}
	if err := m.Build(); err != nil {
		return nil, err
	}
	return m, nil
}
