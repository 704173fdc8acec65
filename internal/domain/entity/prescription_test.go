package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDosagePattern(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"101", "101", false},
		{"1-0-1", "101", false},
		{"000", "000", false},
		{"111", "111", false},
		{"1-1-1", "111", false},
		{"10", "", true},
		{"1011", "", true},
		{"1-0", "", true},
		{"1a1", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeDosagePattern(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDosagePattern, "input %q", tt.in)
		} else {
			assert.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestFormatDosagePattern(t *testing.T) {
	assert.Equal(t, "1-0-1", FormatDosagePattern("101"))
	assert.Equal(t, "0-0-1", FormatDosagePattern("001"))
	// Malformed stored values pass through untouched.
	assert.Equal(t, "10", FormatDosagePattern("10"))
}
