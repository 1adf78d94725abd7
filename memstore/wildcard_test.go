package memstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fameport/errs"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"?", "GDP", true},
		{"?", "", true},
		{"GDP", "GDP", true},
		{"gdp", "GDP", true},
		{"GDP", "GDPX", false},
		{"GDP?", "GDP", true},
		{"GDP?", "GDP.US", true},
		{"?.US", "GDP.US", true},
		{"?.US", "GDP.UK", false},
		{"G^P", "GDP", true},
		{"G^P", "GP", false},
		{"^^^", "CPI", true},
		{"^^^", "CPIX", false},
		{"?A?B", "XAYAZB", true},
		{"?A?B", "XAYAZC", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			m, err := newMatcher(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.want, m.match(tt.name))
		})
	}
}

func TestMatcher_Empty(t *testing.T) {
	_, err := newMatcher("  ")
	require.ErrorIs(t, err, errs.ErrInvalidName)
}
