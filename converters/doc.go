// Package converters holds ready-made converter functions for explicit field pairs
// whose types differ, mostly between plain Go values and aarondl/null or sqlboiler types.
//
//	tm.WithConverter("Nickname", "Nickname", converters.ToNullString)
package converters
