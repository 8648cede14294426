package mapper

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairNames(pairs []FieldPair) [][2]string {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, [2]string{p.From, p.To})
	}
	return out
}

func TestTypeMapping_MatchesByNameAndIdenticalType(t *testing.T) {
	type Src struct {
		Name  string
		Age   int
		Email string
		Score float64
		note  string
	}
	type Dst struct {
		Name  string
		Age   int64 // different type, not paired
		Email string
		Phone string // no source
		note  string // unexported, not paired
	}

	m := New()
	tm, err := Register[Src, Dst](m)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"Name", "Name"}, {"Email", "Email"}}, pairNames(tm.Pairs()))
	for _, p := range tm.Pairs() {
		assert.Equal(t, OriginName, p.Origin)
		assert.False(t, p.HasConverter())
	}

	d, err := Map[Dst](m, Src{Name: "n", Age: 3, Email: "e", note: "x"})
	require.NoError(t, err)
	assert.Equal(t, Dst{Name: "n", Email: "e"}, d)
}

func TestTypeMapping_TagRequiresIdenticalType(t *testing.T) {
	type Src struct {
		LastName string
		Count    int
	}
	type Dst struct {
		Family string `mapsfrom:"LastName"`
		Total  int64  `mapsfrom:"Count"`
		Other  string `mapsfrom:"Missing"`
	}

	tm, err := Register[Src, Dst](New())
	require.NoError(t, err)
	pairs := tm.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "LastName", pairs[0].From)
	assert.Equal(t, "Family", pairs[0].To)
	assert.Equal(t, OriginTag, pairs[0].Origin)
	assert.NoError(t, tm.Err())
}

func TestTypeMapping_WithErrors(t *testing.T) {
	tests := []struct {
		name      string
		configure func(tm *TypeMapping)
		wantErr   error
	}{
		{name: "unknown source", configure: func(tm *TypeMapping) { tm.With("Nope", "FirstName") }, wantErr: ErrUnknownField},
		{name: "unknown destination", configure: func(tm *TypeMapping) { tm.With("FirstName", "Nope") }, wantErr: ErrUnknownField},
		{name: "nil converter", configure: func(tm *TypeMapping) { tm.WithConverter("FirstName", "FirstName", nil) }, wantErr: ErrInvalidConverter},
		{name: "unknown ignore", configure: func(tm *TypeMapping) { tm.Ignore("Nope") }, wantErr: ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := Register[Person, PersonViewModel](New(), tt.configure)
			require.NoError(t, err)
			assert.ErrorIs(t, tm.Err(), tt.wantErr)
		})
	}
}

func TestTypeMapping_WithTypeMismatch(t *testing.T) {
	type Src struct{ Count int }
	type Dst struct{ Count string }

	tm, err := Register[Src, Dst](New())
	require.NoError(t, err)
	assert.Empty(t, tm.Pairs())

	tm.With("Count", "Count")
	assert.ErrorIs(t, tm.Err(), ErrTypeMismatch)
}

func TestTypeMapping_FirstErrorWins(t *testing.T) {
	tm, err := Register[Person, PersonViewModel](New())
	require.NoError(t, err)
	tm.With("A", "FirstName").With("FirstName", "B")
	require.Error(t, tm.Err())
	assert.Contains(t, tm.Err().Error(), "no field A")
}

func TestTypeMapping_WithOverridesExistingPairInPlace(t *testing.T) {
	tm, err := Register[Person, PersonViewModel](New())
	require.NoError(t, err)
	tm.With("MiddleName", "FirstName")

	pairs := tm.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, [2]string{"MiddleName", "FirstName"}, [2]string{pairs[0].From, pairs[0].To})
	assert.Equal(t, OriginExplicit, pairs[0].Origin)
}

func TestTypeMapping_IgnoreTag(t *testing.T) {
	type Src struct {
		Name     string
		Password string `mapper:"ignore"`
		Email    string
		Token    string
	}
	type Dst struct {
		Name     string
		Password string
		Email    string
		Token    string `mapper:"-"`
		Secret   string `mapper:"-" mapsfrom:"Email"`
	}

	forEachStrategy(t, runtimeStrategies, func(t *testing.T, s Strategy) {
		m := New(WithStrategy(s))
		tm, err := Register[Src, Dst](m)
		require.NoError(t, err)

		d, err := Map[Dst](m, Src{Name: "John Doe", Password: "secret123", Email: "john@example.com", Token: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "John Doe", d.Name)
		assert.Equal(t, "john@example.com", d.Email)
		assert.Empty(t, d.Password)
		assert.Empty(t, d.Token)
		assert.Empty(t, d.Secret)

		// ignored fields cannot be paired explicitly either
		tm2, err := Register[Dst, Src](m, func(tm *TypeMapping) { tm.With("Token", "Token") })
		require.NoError(t, err)
		assert.ErrorIs(t, tm2.Err(), ErrUnknownField)
		assert.NoError(t, tm.Err())
	})
}

func TestTypeMapping_SealedAfterCompile(t *testing.T) {
	m := New()
	tm, err := Register[Person, PersonViewModel](m)
	require.NoError(t, err)
	require.NoError(t, m.Build())

	tm.With("MiddleName", "OptionalName")
	assert.ErrorIs(t, tm.Err(), ErrMappingSealed)

	err = m.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMappingSealed)
	assert.Contains(t, err.Error(), "pairing MiddleName -> OptionalName")

	// already compiled copy is unaffected
	vm, err := Map[PersonViewModel](m, newPerson())
	require.NoError(t, err)
	assert.Equal(t, "Jack", vm.FirstName)
	assert.Empty(t, vm.OptionalName)
}

func TestTypeMapping_MarshalJSON(t *testing.T) {
	tm, err := Register[Person, PersonViewModel](New(), func(tm *TypeMapping) {
		tm.WithConverter("MiddleName", "OptionalName", MapString(func(s string) string { return s }))
	})
	require.NoError(t, err)

	b, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source": "mapper.Person",
		"destination": "mapper.PersonViewModel",
		"pairs": [
			{"from": "FirstName", "to": "FirstName", "type": "string", "origin": "name"},
			{"from": "LastName", "to": "FamilyName", "type": "string", "origin": "tag"},
			{"from": "MiddleName", "to": "OptionalName", "type": "string", "origin": "explicit", "converter": true}
		]
	}`, string(b))
	assert.Equal(t, "PairOrigin(7)", PairOrigin(7).String())
}

func TestTypeMapping_Accessors(t *testing.T) {
	tm, err := Register[Person, PersonViewModel](New())
	require.NoError(t, err)
	assert.Equal(t, "Person", tm.Source().Name())
	assert.Equal(t, "PersonViewModel", tm.Destination().Name())
}
