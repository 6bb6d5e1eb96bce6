package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/threadkart/storefront/internal/domain/cart"
	"github.com/threadkart/storefront/internal/domain/money"
	"github.com/threadkart/storefront/internal/domain/pricing"
	"github.com/threadkart/storefront/internal/domain/region"
)

// loadCart loads the session cart and the region its prices resolve under.
func (h *Handler) loadCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, region.Region) {
	sid := h.sessionID(w, r)
	c := cart.Load(r.Context(), h.sessions, cartKey(sid))

	reg := region.Region("")
	if q := r.URL.Query().Get("region"); q != "" {
		reg = region.Normalize(q)
	} else {
		reg = region.NewStore(r.Context(), h.sessions, regionKey(sid)).Get()
	}
	return c, reg
}

// getCart returns the session's cart with per-line resolved prices.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, reg := h.loadCart(w, r)
	h.writeCart(w, c, reg)
}

// addCartItem merges an item into the session cart. Invalid inputs (missing
// size, unparseable product id) leave the cart unchanged; the response is the
// current cart either way, mirroring the store's silent-reject contract.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAddInput(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	c, reg := h.loadCart(w, r)
	c.AddItem(r.Context(), in)
	h.writeCart(w, c, reg)
}

// removeCartItem removes the line identified by (productId, size).
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAddInput(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	c, reg := h.loadCart(w, r)
	c.RemoveItem(r.Context(), in.ProductID, in.Size)
	h.writeCart(w, c, reg)
}

// clearCart empties the session cart.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c, reg := h.loadCart(w, r)
	c.Clear(r.Context())
	h.writeCart(w, c, reg)
}

// decodeAddInput decodes a cart mutation payload. Clients spell keys
// inconsistently, so the product ID and prices coerce from numbers or
// numeric strings and unknown keys are skipped. A field that fails to coerce
// is simply left unset; the cart store decides whether the input is usable.
func decodeAddInput(body io.Reader) (cart.AddInput, error) {
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return cart.AddInput{}, err
	}

	var in cart.AddInput
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId", "product_id":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			if amt, ok := pricing.Coerce(raw); ok {
				in.ProductID = amt.IntPart()
			}
		case "name":
			s, err := d.Str()
			in.Name = s
			return err
		case "size":
			s, err := d.Str()
			in.Size = s
			return err
		case "image1", "image":
			s, err := d.Str()
			in.Image = s
			return err
		case "price":
			return decodeNullDecimal(d, &in.Price)
		case "price_inr", "priceInr":
			return decodeNullDecimal(d, &in.PriceINR)
		case "price_usd", "priceUsd":
			return decodeNullDecimal(d, &in.PriceUSD)
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return cart.AddInput{}, err
	}
	return in, nil
}

func decodeNullDecimal(d *jx.Decoder, out *decimal.NullDecimal) error {
	raw, err := d.Raw()
	if err != nil {
		return err
	}
	if amt, ok := pricing.Coerce(raw); ok {
		*out = decimal.NullDecimal{Decimal: amt, Valid: true}
	}
	return nil
}

// writeCart renders the cart with resolved per-line money, the derived item
// count, and per-currency totals. Totals are grouped by resolved currency
// because a cart can mix lines with and without a USD price; no conversion
// between the two is ever attempted.
func (h *Handler) writeCart(w http.ResponseWriter, c *cart.Cart, reg region.Region) {
	lines := c.Lines()

	totals := map[money.Currency]decimal.Decimal{}
	resolved := make([]money.Money, len(lines))
	for i, l := range lines {
		m := pricing.ResolveLine(l, reg)
		resolved[i] = m
		totals[m.Currency] = totals[m.Currency].Add(m.Amount.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i, l := range lines {
						h.encodeCartLine(e, l, resolved[i])
					}
				})
			})
			e.Field("count", func(e *jx.Encoder) { e.Int(c.Count()) })
			e.Field("totals", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					// INR first for stable output.
					for _, cur := range []money.Currency{money.INR, money.USD} {
						if amt, ok := totals[cur]; ok {
							encodeMoney(e, money.New(amt, cur))
						}
					}
				})
			})
		})
	})
}

func (h *Handler) encodeCartLine(e *jx.Encoder, l cart.Line, m money.Money) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Int64(l.ProductID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
		e.Field("size", func(e *jx.Encoder) { e.Str(l.Size) })
		e.Field("qty", func(e *jx.Encoder) { e.Int(l.Qty) })
		e.Field("image1", func(e *jx.Encoder) { e.Str(h.imageURL(l.Image)) })
		e.Field("price", func(e *jx.Encoder) { encodeMoney(e, m) })
		e.Field("lineTotal", func(e *jx.Encoder) {
			encodeMoney(e, money.New(m.Amount.Mul(decimal.NewFromInt(int64(l.Qty))), m.Currency))
		})
	})
}
