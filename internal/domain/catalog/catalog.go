// Package catalog defines the apparel product read model and its repository
// contract.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/threadkart/storefront/internal/domain/pricing"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item. USD and MRP prices are opt-in: a zero decimal
// means "not set" and the pricing resolver falls back accordingly.
type Product struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	Category    string
	BestSeller  bool
	Sizes       []string
	PriceINR    decimal.Decimal
	PriceUSD    decimal.Decimal
	MRPINR      decimal.Decimal
	MRPUSD      decimal.Decimal
	Images      []string
}

// Image returns the primary product image, or "" when none is set.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Record bridges the typed product into the raw-field shape the pricing
// resolver consumes. All four fields are always present; the resolver's
// "strictly positive" rules make a zero USD or MRP fall through on their own.
func (p Product) Record() pricing.Record {
	return pricing.Record{
		"price_inr": jx.Raw(p.PriceINR.String()),
		"price_usd": jx.Raw(p.PriceUSD.String()),
		"mrp_inr":   jx.Raw(p.MRPINR.String()),
		"mrp_usd":   jx.Raw(p.MRPUSD.String()),
	}
}

// Repository defines catalog persistence. Read operations serve the
// storefront; Create/Update/Delete back the admin panel.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
