package converters

import (
	"testing"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckString(t *testing.T) {
	op := errors.Op("test.CheckString")

	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{name: "valid string", input: "test string", want: "test string"},
		{name: "empty string", input: "", wantErr: true},
		{name: "non-string (int)", input: 123, wantErr: true},
		{name: "non-string (nil)", input: nil, wantErr: true},
		{name: "non-string (bool)", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckString(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckInt64(t *testing.T) {
	op := errors.Op("test.CheckInt64")

	tests := []struct {
		name    string
		input   interface{}
		want    int64
		wantErr bool
	}{
		{name: "positive", input: int64(14320000), want: 14320000},
		{name: "zero", input: int64(0), want: 0},
		{name: "negative", input: int64(-5), want: -5},
		{name: "plain int is rejected", input: 5, wantErr: true},
		{name: "float64 is rejected", input: float64(1), wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckInt64(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, int64(-1), got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckBool(t *testing.T) {
	op := errors.Op("test.CheckBool")

	got, err := CheckBool(op, true)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = CheckBool(op, "true")
	assert.Error(t, err)
}

func TestCheckTime(t *testing.T) {
	op := errors.Op("test.CheckTime")

	now := time.Now()
	zeroTime := time.Time{}

	tests := []struct {
		name    string
		input   interface{}
		want    time.Time
		wantErr bool
	}{
		{name: "valid time.Time", input: now, want: now},
		{name: "zero time.Time", input: zeroTime, want: zeroTime},
		{name: "non-time.Time (string)", input: "2025-11-08", wantErr: true},
		{name: "non-time.Time (int)", input: 123, wantErr: true},
		{name: "non-time.Time (nil)", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckTime(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
