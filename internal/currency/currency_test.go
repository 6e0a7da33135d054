package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup("inr")
	assert.True(t, ok)
	assert.Equal(t, "INR", c.Code)
	assert.Equal(t, "₹", c.Symbol)

	c, ok = Lookup("  usd ")
	assert.True(t, ok)
	assert.Equal(t, "USD", c.Code)

	_, ok = Lookup("XYZ")
	assert.False(t, ok)
}

func TestConvert(t *testing.T) {
	// Identity conversion changes nothing
	amount := decimal.NewFromInt(1000)
	assert.True(t, Convert(amount, "INR", "INR").Equal(amount))

	// Base to USD applies the rate directly
	got := Convert(decimal.NewFromInt(1000), "INR", "USD")
	assert.True(t, got.Equal(decimal.NewFromInt(12)), "got %s", got)

	// USD back to base inverts it
	got = Convert(decimal.NewFromInt(12), "USD", "INR")
	assert.True(t, got.Equal(decimal.NewFromInt(1000)), "got %s", got)

	// Cross conversion goes through the base
	got = Convert(decimal.NewFromInt(12), "USD", "JPY")
	assert.True(t, got.Equal(decimal.NewFromInt(1800)), "got %s", got)

	// Unknown codes convert at rate 1 instead of failing
	got = Convert(decimal.NewFromInt(500), "XYZ", "INR")
	assert.True(t, got.Equal(decimal.NewFromInt(500)), "got %s", got)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"150000", "INR", "₹1,50,000.00"},
		{"1234567.5", "INR", "₹12,34,567.50"},
		{"999", "INR", "₹999.00"},
		{"1000", "INR", "₹1,000.00"},
		{"0", "INR", "₹0.00"},
		{"-150000", "INR", "₹-1,50,000.00"},
		{"2500.75", "USD", "$2,500.75"},
		// JPY has no minor unit
		{"150000", "JPY", "¥1,50,000"},
		// Unknown code: bare number, no symbol, no grouping
		{"150000", "XYZ", "150000"},
	}

	for _, tt := range tests {
		got := Format(decimal.RequireFromString(tt.amount), tt.code)
		assert.Equal(t, tt.want, got, "Format(%s, %s)", tt.amount, tt.code)
	}
}

func TestGroupIndian(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"150000", "1,50,000"},
		{"12345678", "1,23,45,678"},
		{"1234567.89", "12,34,567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupIndian(tt.in), "groupIndian(%s)", tt.in)
	}
}
