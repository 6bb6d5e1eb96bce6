package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/threadkart/storefront/internal/domain/catalog"
	"github.com/threadkart/storefront/internal/domain/pricing"
	"github.com/threadkart/storefront/internal/domain/region"
)

// listProducts returns the catalog, optionally filtered by category, with
// prices resolved for the request's region.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	reg := h.requestRegion(w, r)

	var (
		products []catalog.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.products.ListByCategory(r.Context(), category)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range products {
				h.encodeProduct(e, p, reg)
			}
		})
	})
}

// getProduct returns a single product by numeric ID.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	h.writeProduct(w, r, p, err)
}

// getProductBySlug returns a single product by its URL slug.
func (h *Handler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	h.writeProduct(w, r, p, err)
}

func (h *Handler) writeProduct(w http.ResponseWriter, r *http.Request, p *catalog.Product, err error) {
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	reg := h.requestRegion(w, r)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p, reg)
	})
}

// encodeProduct writes the product with its resolved price, MRP, and the
// struck-through discount badge when one applies.
func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product, reg region.Region) {
	record := p.Record()
	price := pricing.ResolvePrice(record, reg)
	mrp := pricing.ResolveMRP(record, reg)

	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("slug", func(e *jx.Encoder) { e.Str(p.Slug) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("bestSeller", func(e *jx.Encoder) { e.Bool(p.BestSeller) })
		e.Field("sizes", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, s := range p.Sizes {
					e.Str(s)
				}
			})
		})
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range p.Images {
					e.Str(h.imageURL(img))
				}
			})
		})
		e.Field("price", func(e *jx.Encoder) { encodeMoney(e, price) })
		// The MRP and discount badge are omitted entirely when no MRP is set,
		// so clients never render a "0% off" strike-through.
		if pct, ok := pricing.DiscountPercent(price, mrp); ok {
			e.Field("mrp", func(e *jx.Encoder) { encodeMoney(e, mrp) })
			e.Field("discountPercent", func(e *jx.Encoder) { e.Int64(pct) })
		}
	})
}
