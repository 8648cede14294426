// Package mapper copies matching fields from a source struct into a destination struct.
//
// A Mapper holds mappings between pairs of struct types. Each mapping is
// resolved once, when it is registered, into a list of field pairs; every call
// afterwards just copies those pairs.
//
// Basic Usage
//
//	m := mapper.New()
//	if _, err := mapper.Register[Person, PersonView](m); err != nil {
//	    return err
//	}
//	view, err := mapper.Map[PersonView](m, person)
//
// # Matching Rules
//
// For every exported destination field, in declaration order:
//  1. a source field with the same name and an identical type is paired
//  2. a `mapsfrom:"SourceName"` tag names the source field instead, and wins over 1
//  3. TypeMapping.With and TypeMapping.WithConverter pair fields explicitly and win over both
//
// Fields of differing types are never paired implicitly; use WithConverter.
//
//	type PersonView struct {
//	    FirstName  string
//	    FamilyName string `mapsfrom:"LastName"`
//	    Nickname   string
//	    Password   string `mapper:"-"` // never written
//	}
//
//	mapper.Register[Person, PersonView](m, func(tm *mapper.TypeMapping) {
//	    tm.With("MiddleName", "Nickname")
//	})
//
// Configuration mistakes (unknown field names, mismatched types) are recorded
// on the TypeMapping and returned by Build and by the first Into or Map call.
//
// # Strategies
//
// The copy is performed by one of four strategies, chosen with WithStrategy:
//   - StrategyReflection walks the pairs with reflect on every call
//   - StrategyCompiled builds kind-specialised closures once per mapping
//   - StrategyEmitted lowers the pairs to a small instruction program over field offsets
//   - StrategyGenerated calls plain Go produced by cmd/mapgen through go generate
//
// All four produce the same result for the same mapping. A mapping is compiled
// on Build or on first use and is read-only afterwards.
//
// # Embedded Structs
//
// Embedded struct fields (including pointer-to-struct) are flattened and treated
// as if they were defined directly in the parent struct. A nil embedded pointer
// on the source skips its fields; on the destination it is allocated.
//
// # Thread Safety
//
// The Mapper is safe for concurrent use. Registration swaps a copy-on-write
// registry and compiled mappings are published atomically.
package mapper
