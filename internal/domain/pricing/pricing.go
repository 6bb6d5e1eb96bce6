// Package pricing resolves a display-ready money value from a product or
// cart-line record plus a region.
//
// Resolution never fails: when no usable price field exists the resolver
// degrades to a zero amount in the region's default currency, so rendering
// code stays free of error-handling branches.
package pricing

import (
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/threadkart/storefront/internal/domain/cart"
	"github.com/threadkart/storefront/internal/domain/money"
	"github.com/threadkart/storefront/internal/domain/region"
)

// Field aliases, checked in priority order. Catalog records come from feed
// authors and legacy clients that spell keys inconsistently, so the
// precedence rule is kept explicit and auditable here rather than scattered
// through fallback chains.
//
// The bare "price"/"mrp" spellings are the legacy single-currency fields and
// always lose to an explicit INR field.
var (
	priceINRAliases = []string{"price_inr", "priceInr", "price"}
	priceUSDAliases = []string{"price_usd", "priceUsd"}
	mrpINRAliases   = []string{"mrp_inr", "mrpInr", "mrp"}
	mrpUSDAliases   = []string{"mrp_usd", "mrpUsd"}
)

// Record is a raw JSON object as received from the catalog or a persisted
// cart, keyed by field name.
type Record map[string]jx.Raw

// ParseRecord decodes a JSON object into a Record. Only the top-level keys
// are split; values stay raw until a resolver coerces them.
func ParseRecord(data []byte) (Record, error) {
	d := jx.DecodeBytes(data)
	rec := Record{}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		rec[key] = append(jx.Raw(nil), raw...)
		return nil
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

// ResolvePrice picks the sale price for the record in the given region.
//
// US region with a USD field strictly greater than zero resolves to USD; a
// zero USD price means "not set" and falls through, since region-specific
// pricing is opt-in per product. Everything else resolves to the INR field
// when it coerces to a number >= 0 (zero is a valid free-item price), and
// finally to a zero amount in the region's default currency.
func ResolvePrice(rec Record, r region.Region) money.Money {
	return resolve(rec, r, priceUSDAliases, priceINRAliases, false)
}

// ResolveMRP picks the struck-through reference price for the record. Unlike
// ResolvePrice it requires the INR field to be strictly positive: an MRP of
// zero means "no MRP set", and surfacing it would render a nonsensical
// "0% off" badge.
func ResolveMRP(rec Record, r region.Region) money.Money {
	return resolve(rec, r, mrpUSDAliases, mrpINRAliases, true)
}

// ResolveLine resolves a cart line's display price using the same algorithm
// over the line's typed price fields.
func ResolveLine(l cart.Line, r region.Region) money.Money {
	r = region.Normalize(string(r))
	if r == region.US && l.PriceUSD.IsPositive() {
		return money.New(l.PriceUSD, money.USD)
	}
	if !l.PriceINR.IsNegative() {
		return money.New(l.PriceINR, money.INR)
	}
	return money.Zero(r.Currency())
}

// DiscountPercent returns the integer struck-through discount for a resolved
// price/MRP pair. The badge is suppressed (ok=false) when the currencies
// differ or the MRP does not exceed the price, which also covers the
// "MRP not set" zero value.
func DiscountPercent(price, mrp money.Money) (int64, bool) {
	if mrp.Currency != price.Currency || !mrp.Amount.GreaterThan(price.Amount) || !mrp.Amount.IsPositive() {
		return 0, false
	}
	pct := mrp.Amount.Sub(price.Amount).Div(mrp.Amount).Mul(decimal.NewFromInt(100)).Round(0)
	return pct.IntPart(), true
}

func resolve(rec Record, r region.Region, usdAliases, inrAliases []string, strictINR bool) money.Money {
	// Callers may pass a raw region string through unchanged.
	r = region.Normalize(string(r))

	if r == region.US {
		if amt, ok := lookup(rec, usdAliases); ok && amt.IsPositive() {
			return money.New(amt, money.USD)
		}
	}

	if amt, ok := lookup(rec, inrAliases); ok {
		if strictINR {
			if amt.IsPositive() {
				return money.New(amt, money.INR)
			}
		} else if !amt.IsNegative() {
			return money.New(amt, money.INR)
		}
	}

	return money.Zero(r.Currency())
}

// Per-field lookups, used where a caller needs the raw field value rather
// than a region-resolved price (e.g. the admin decode path). Each checks its
// alias list in priority order and reports whether any alias coerced.

func LookupPriceINR(rec Record) (decimal.Decimal, bool) { return lookup(rec, priceINRAliases) }
func LookupPriceUSD(rec Record) (decimal.Decimal, bool) { return lookup(rec, priceUSDAliases) }
func LookupMRPINR(rec Record) (decimal.Decimal, bool)   { return lookup(rec, mrpINRAliases) }
func LookupMRPUSD(rec Record) (decimal.Decimal, bool)   { return lookup(rec, mrpUSDAliases) }

// lookup returns the first alias that coerces to a number.
func lookup(rec Record, aliases []string) (decimal.Decimal, bool) {
	for _, key := range aliases {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		if amt, ok := Coerce(raw); ok {
			return amt, true
		}
	}
	return decimal.Decimal{}, false
}

// Coerce turns a raw JSON value into a decimal. Numbers and numeric strings
// coerce; null, objects, arrays, booleans, and non-numeric strings are
// treated as absent (ok=false).
func Coerce(raw jx.Raw) (decimal.Decimal, bool) {
	switch raw.Type() {
	case jx.Number:
		amt, err := decimal.NewFromString(strings.TrimSpace(string(raw)))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return amt, true
	case jx.String:
		s, err := jx.DecodeBytes(raw).Str()
		if err != nil {
			return decimal.Decimal{}, false
		}
		amt, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return amt, true
	default:
		return decimal.Decimal{}, false
	}
}
