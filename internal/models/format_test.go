package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"75000", "75,000"},
		{"150000", "150,000"},
		{"1234.5", "1,234.50"},
		{"1234.999", "1,235"},
		{"9223372036854775807", "9,223,372,036,854,775,807"},
		{"20000000000000000000", "20,000,000,000,000,000,000"},
		{"12345678901234567890.25", "12,345,678,901,234,567,890.25"},
		{"-1500", "-1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹45,000", FormatRupees(decimal.NewFromInt(45000)))
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1", groupDigits("1"))
	assert.Equal(t, "100", groupDigits("100"))
	assert.Equal(t, "1,000", groupDigits("1000"))
	assert.Equal(t, "100,000,000,000,000,000,000", groupDigits("100000000000000000000"))
}
