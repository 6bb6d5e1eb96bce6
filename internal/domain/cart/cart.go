// Package cart implements the session-persisted shopping cart.
//
// A cart line is uniquely identified by (product ID, size). Adding a product
// that already sits in the cart under the same size increments its quantity;
// the line's price fields stay fixed at first-add time so a catalog price
// change never silently drifts a cart that is already filled.
//
// The cart is non-critical convenience state: a malformed persisted payload
// loads as an empty cart and persistence failures are swallowed, leaving the
// in-memory cart correct for the current session.
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/threadkart/storefront/internal/storage/kv"
)

// Line is one entry in the cart.
//
// Price is a legacy mirror of PriceINR kept in sync on every write for older
// clients that still read the bare "price" field. It is never authoritative
// once PriceINR exists.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	PriceINR  decimal.Decimal `json:"price_inr"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	Image     string          `json:"image1"`
	Size      string          `json:"size"`
	Qty       int             `json:"qty"`
}

// matches reports whether the line carries the identity key (productID, size).
func (l Line) matches(productID int64, size string) bool {
	return l.ProductID == productID && l.Size == size
}

// AddInput is the caller-supplied payload for AddItem. The price fields are
// nullable so an absent field is distinguishable from an explicit zero:
// PriceINR falls back to the legacy Price when unset, and both default to
// zero when neither is present.
type AddInput struct {
	ProductID int64
	Name      string
	Price     decimal.NullDecimal
	PriceINR  decimal.NullDecimal
	PriceUSD  decimal.NullDecimal
	Image     string
	Size      string
}

// Cart holds one session's ordered cart lines backed by a key/value store.
// Insertion order is preserved for display; identity is (productID, size)
// regardless of position.
type Cart struct {
	store kv.Store
	key   string

	mu    sync.Mutex
	lines []Line
}

// Load reads the persisted cart for the given session key. Absent, unparsable,
// or non-array payloads yield an empty cart; Load never fails.
func Load(ctx context.Context, store kv.Store, key string) *Cart {
	c := &Cart{store: store, key: key}
	raw, err := store.Get(ctx, key)
	if err != nil {
		return c
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return c
	}
	c.lines = lines
	return c
}

// AddItem merges the input into the cart.
//
// Inputs with a non-positive product ID or a size that trims to empty are
// silently rejected; the caller is responsible for surfacing its own message.
// When a line with the same (productID, size) exists its quantity is
// incremented and its stored prices are left untouched (first-write-wins).
// Otherwise a new line is appended with quantity 1.
func (c *Cart) AddItem(ctx context.Context, in AddInput) {
	if in.ProductID <= 0 || strings.TrimSpace(in.Size) == "" {
		return
	}

	inr := decimal.Zero
	switch {
	case in.PriceINR.Valid:
		inr = in.PriceINR.Decimal
	case in.Price.Valid:
		inr = in.Price.Decimal
	}
	usd := decimal.Zero
	if in.PriceUSD.Valid {
		usd = in.PriceUSD.Decimal
	}

	c.mu.Lock()
	found := false
	for i := range c.lines {
		if c.lines[i].matches(in.ProductID, in.Size) {
			c.lines[i].Qty++
			found = true
			break
		}
	}
	if !found {
		c.lines = append(c.lines, Line{
			ProductID: in.ProductID,
			Name:      in.Name,
			Price:     inr,
			PriceINR:  inr,
			PriceUSD:  usd,
			Image:     in.Image,
			Size:      in.Size,
			Qty:       1,
		})
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// RemoveItem deletes the line matching (productID, size). Removing an absent
// line is a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productID int64, size string) {
	c.mu.Lock()
	removed := false
	for i := range c.lines {
		if c.lines[i].matches(productID, size) {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if removed {
		c.persist(ctx)
	}
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()

	c.persist(ctx)
}

// Count returns the total quantity across all lines. It is recomputed on
// every read so it can never desynchronize from the lines themselves.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.lines {
		total += l.Qty
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// persist rewrites the whole collection. Failures are swallowed: the session
// keeps a correct in-memory cart and only durability is lost.
func (c *Cart) persist(ctx context.Context) {
	c.mu.Lock()
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	c.mu.Unlock()
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, c.key, data)
}
