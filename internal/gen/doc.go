// Package gen renders the mapping plans found by package analyze into Go
// source: a To<Dst> function, a (*Dst).From<Src> method and an init that
// registers the method with the runtime mapper's generated strategy.
package gen
