package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"50", "$50"},
		{"999", "$999"},
		{"1000", "$1,000"},
		{"1250.5", "$1,250.50"},
		{"-1250.5", "-$1,250.50"},
		{"1234567.891", "$1,234,567.89"},
		{"0.004", "$0"},
		{"-0.25", "-$0.25"},
		{"100000", "$100,000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}
