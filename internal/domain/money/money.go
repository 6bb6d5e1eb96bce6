// Package money defines the display-ready monetary value resolved for a
// product or cart line, and locale-aware formatting for the two supported
// storefront currencies.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is one of the two currencies the storefront can display.
type Currency string

const (
	// INR is the universal fallback currency. Every product carries an INR price.
	INR Currency = "INR"
	// USD is opt-in per product; a missing or zero USD price means "not set".
	USD Currency = "USD"
)

// Symbol returns the display glyph for the currency.
func (c Currency) Symbol() string {
	if c == USD {
		return "$"
	}
	return "₹"
}

// Money is a resolved {amount, currency, symbol} triple. It is derived on
// demand from a record plus a region and never persisted on its own.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
	Symbol   string
}

// New builds a Money in the given currency.
func New(amount decimal.Decimal, c Currency) Money {
	return Money{Amount: amount, Currency: c, Symbol: c.Symbol()}
}

// Zero returns a zero-amount Money in the given currency. Resolution degrades
// to this value instead of failing when no usable price field exists.
func Zero(c Currency) Money {
	return New(decimal.Zero, c)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Source amounts are whole-currency-unit prices, so formatting always rounds
// to an integer. INR uses Indian digit grouping (₹1,00,000), USD uses the
// western grouping ($1,000).
var (
	printerIN = message.NewPrinter(language.MustParse("en-IN"))
	printerUS = message.NewPrinter(language.AmericanEnglish)
)

// Format renders the money as its symbol followed by the integer-rounded,
// locale-grouped amount.
func (m Money) Format() string {
	return FormatAmount(m.Amount, m.Currency)
}

// FormatAmount renders amount in the grouping conventions of the currency's
// locale, prefixed with the currency symbol. No decimal places are shown.
func FormatAmount(amount decimal.Decimal, c Currency) string {
	p := printerUS
	if c == INR {
		p = printerIN
	}
	return c.Symbol() + p.Sprintf("%d", amount.Round(0).IntPart())
}
