package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  ID
		expectErr bool
	}{
		{name: "type only", input: "Logger", expected: ID{Type: "Logger"}},
		{name: "type and name", input: "Logger#audit", expected: ID{Type: "Logger", Name: "audit"}},
		{name: "dotted type", input: "partgrid.ExportProvider", expected: ID{Type: "partgrid.ExportProvider"}},
		{name: "empty", input: "", expectErr: true},
		{name: "empty name after hash", input: "Logger#", expectErr: true},
		{name: "empty type", input: "#audit", expectErr: true},
		{name: "invalid characters", input: "Log ger", expectErr: true},
		{name: "second hash", input: "Logger#a#b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestID_RoundTrip(t *testing.T) {
	for _, s := range []string{"Logger", "Logger#audit", "net/http.Client#default"} {
		t.Run(s, func(t *testing.T) {
			id, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, id.String())

			again, err := Parse(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, again)
		})
	}
}

func TestID_Compatibility(t *testing.T) {
	// Compatibility is plain struct equality: both fields must match.
	assert.Equal(t, MustParse("Logger"), ID{Type: "Logger"})
	assert.NotEqual(t, MustParse("Logger"), MustParse("Logger#audit"))
	assert.NotEqual(t, MustParse("Logger#audit"), MustParse("Logger#debug"))
	assert.NotEqual(t, MustParse("Logger"), MustParse("logger"))
}

func TestID_Compare(t *testing.T) {
	assert.Negative(t, MustParse("A").Compare(MustParse("B")))
	assert.Negative(t, MustParse("A").Compare(MustParse("A#x")))
	assert.Zero(t, MustParse("A#x").Compare(MustParse("A#x")))
	assert.True(t, ID{}.IsZero())
	assert.Panics(t, func() { MustParse("") })
}
