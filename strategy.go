package mapper

import (
	"fmt"
	"reflect"
	"strings"
)

// Strategy selects how a compiled mapping copies fields at call time.
type Strategy int

const (
	// StrategyReflection reads and writes every pair through reflect on each call.
	StrategyReflection Strategy = iota
	// StrategyCompiled composes kind-specialised closures once per mapping.
	StrategyCompiled
	// StrategyEmitted lowers the pairs into an instruction program over field offsets.
	StrategyEmitted
	// StrategyGenerated calls functions produced ahead of time by cmd/mapgen.
	StrategyGenerated
)

var strategyNames = [...]string{
	StrategyReflection: "reflection",
	StrategyCompiled:   "compiled",
	StrategyEmitted:    "emitted",
	StrategyGenerated:  "generated",
}

func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the Strategy named by s, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	for i, name := range strategyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// copyFunc copies paired fields from src into dst; both are struct values and dst is addressable.
type copyFunc func(dst, src reflect.Value) error

func (s Strategy) compile(tm *TypeMapping, pairs []FieldPair) (copyFunc, error) {
	switch s {
	case StrategyReflection:
		return compileReflection(pairs), nil
	case StrategyCompiled:
		return compileClosures(pairs), nil
	case StrategyEmitted:
		return emitProgram(tm.dst, pairs).run, nil
	case StrategyGenerated:
		return lookupGenerated(tm, pairs)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
}
