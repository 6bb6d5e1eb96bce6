package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency Currency
		want     string
	}{
		{"usd small", d("25"), USD, "$25"},
		{"usd thousands", d("1000"), USD, "$1,000"},
		{"inr thousands western boundary", d("1000"), INR, "₹1,000"},
		{"inr lakh grouping", d("100000"), INR, "₹1,00,000"},
		{"inr crore grouping", d("12345678"), INR, "₹1,23,45,678"},
		{"fractional rounds to integer", d("25.40"), USD, "$25"},
		{"fractional rounds half up", d("999.5"), INR, "₹1,000"},
		{"zero", decimal.Zero, INR, "₹0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.currency))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₹", INR.Symbol())
	assert.Equal(t, "$", USD.Symbol())
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency)
	assert.Equal(t, "$", m.Symbol)
	assert.Equal(t, "$0", m.Format())
}
