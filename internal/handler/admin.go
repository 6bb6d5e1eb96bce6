package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/threadkart/storefront/internal/domain/catalog"
	"github.com/threadkart/storefront/internal/domain/pricing"
	"github.com/threadkart/storefront/internal/domain/region"
)

// createProduct inserts a new catalog product.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProduct(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := validateProduct(p); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.products.Create(r.Context(), p); err != nil {
		zctx.From(r.Context()).Error("create product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeProduct(e, *p, region.IN)
	})
}

// updateProduct rewrites an existing catalog product.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := decodeProduct(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p.ID = id
	if err := validateProduct(p); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.products.Update(r.Context(), p); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("update product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p, region.IN)
	})
}

// deleteProduct removes a catalog product.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("delete product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateProduct(p *catalog.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return errors.New("slug is required")
	}
	if p.PriceINR.IsNegative() || p.PriceUSD.IsNegative() ||
		p.MRPINR.IsNegative() || p.MRPUSD.IsNegative() {
		return errors.New("prices must not be negative")
	}
	return nil
}

// decodeProduct decodes an admin product payload. Price fields accept the
// same alias spellings and number-or-string coercion the storefront
// tolerates, so existing admin clients keep working unchanged.
func decodeProduct(body io.Reader) (*catalog.Product, error) {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return nil, err
	}

	rec, err := pricing.ParseRecord(data)
	if err != nil {
		return nil, err
	}

	var p catalog.Product
	if amt, ok := pricing.LookupPriceINR(rec); ok {
		p.PriceINR = amt
	}
	if amt, ok := pricing.LookupPriceUSD(rec); ok {
		p.PriceUSD = amt
	}
	if amt, ok := pricing.LookupMRPINR(rec); ok {
		p.MRPINR = amt
	}
	if amt, ok := pricing.LookupMRPUSD(rec); ok {
		p.MRPUSD = amt
	}

	for key, raw := range rec {
		switch key {
		case "slug":
			p.Slug, _ = jx.DecodeBytes(raw).Str()
		case "name":
			p.Name, _ = jx.DecodeBytes(raw).Str()
		case "description":
			p.Description, _ = jx.DecodeBytes(raw).Str()
		case "category":
			p.Category, _ = jx.DecodeBytes(raw).Str()
		case "bestSeller", "best_seller":
			p.BestSeller, _ = jx.DecodeBytes(raw).Bool()
		case "sizes":
			p.Sizes = decodeStrings(raw)
		case "images":
			p.Images = decodeStrings(raw)
		}
	}
	return &p, nil
}

func decodeStrings(raw jx.Raw) []string {
	var out []string
	d := jx.DecodeBytes(raw)
	_ = d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out
}
