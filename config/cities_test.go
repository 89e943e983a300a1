package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple city name",
			input:    "Cairo",
			expected: "cairo",
		},
		{
			name:     "Surrounding whitespace",
			input:    "  Giza ",
			expected: "giza",
		},
		{
			name:     "Multiple inner spaces",
			input:    "New   Cairo",
			expected: "new cairo",
		},
		{
			name:     "Tabs and mixed case",
			input:    "Sheikh\tZAYED",
			expected: "sheikh zayed",
		},
		{
			name:     "Already normalized",
			input:    "alexandria",
			expected: "alexandria",
		},
		{
			name:     "Blank",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeLocation(tt.input)
			assert.Equal(t, tt.expected, result,
				"NormalizeLocation(%q) = %q, want %q", tt.input, result, tt.expected)
		})
	}
}
