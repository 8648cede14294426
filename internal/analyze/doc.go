// Package analyze finds the struct mappings to generate in a set of Go
// packages and resolves their field pairs with go/types.
//
// Mappings are declared on the destination struct with directives:
//
//	//mapper:from Person
//	//mapper:with MiddleName Nickname
//	//mapper:ignore Password
//	type PersonView struct { ... }
//
// or in a YAML config (see Config). Field pairing follows the runtime
// mapper: identical types only, a mapsfrom tag beats a same-named field and
// explicit pairs beat both.
package analyze
