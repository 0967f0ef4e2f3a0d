package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"1250.75", 1250.75, false},
		{"  300 ", 300, false},
		{"$1,234.56", 1234.56, false},
		{"-45.10", -45.10, false},
		{"", 0, true},
		{"-", 0, true},
		{"twelve", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMoney(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseMoneyOrZero(t *testing.T) {
	assert.Equal(t, 99.5, parseMoneyOrZero("99.50"))
	assert.Equal(t, 0.0, parseMoneyOrZero(""))
	assert.Equal(t, 0.0, parseMoneyOrZero("n/a"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/24", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 02, 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"02 Jan 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseDate(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.input, got)
	}

	_, err := parseDate("not-a-date")
	assert.Error(t, err)
	_, err = parseDate("13/45/99")
	assert.Error(t, err)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "123456789", digitsOnly("123-45-6789"))
	assert.Equal(t, "5551234567", digitsOnly("(555) 123-4567"))
	assert.Equal(t, "", digitsOnly("abc"))
}
