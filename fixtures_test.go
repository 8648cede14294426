package mapper

import (
	"testing"
)

type Person struct {
	FirstName  string
	LastName   string
	MiddleName string
}

type PersonViewModel struct {
	FirstName    string
	FamilyName   string `mapsfrom:"LastName"`
	OptionalName string
}

type OtherPersonModel struct {
	FirstName string `mapsfrom:"LastName"`
}

var allStrategies = []Strategy{StrategyReflection, StrategyCompiled, StrategyEmitted, StrategyGenerated}

var runtimeStrategies = []Strategy{StrategyReflection, StrategyCompiled, StrategyEmitted}

func forEachStrategy(t *testing.T, strategies []Strategy, fn func(t *testing.T, s Strategy)) {
	t.Helper()
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) { fn(t, s) })
	}
}
