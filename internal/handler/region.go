package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/threadkart/storefront/internal/domain/region"
)

// getRegion returns the session's current region.
func (h *Handler) getRegion(w http.ResponseWriter, r *http.Request) {
	writeRegion(w, h.regionStore(w, r).Get())
}

// setRegion normalizes the submitted region, stores it for the session, and
// echoes the normalized value. Unrecognized input silently becomes the
// default region rather than an error.
func (h *Handler) setRegion(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("region")
	if candidate == "" {
		candidate = decodeRegionBody(r.Body)
	}

	got := h.regionStore(w, r).Set(r.Context(), candidate)
	writeRegion(w, got)
}

// decodeRegionBody extracts the "region" field from a JSON body. Any decode
// failure yields an empty candidate, which normalizes to the default region.
func decodeRegionBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<10))
	if err != nil {
		return ""
	}

	candidate := ""
	d := jx.DecodeBytes(data)
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "region" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		candidate = s
		return nil
	})
	return candidate
}

func writeRegion(w http.ResponseWriter, reg region.Region) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("region", func(e *jx.Encoder) { e.Str(string(reg)) })
			e.Field("currency", func(e *jx.Encoder) { e.Str(string(reg.Currency())) })
			e.Field("symbol", func(e *jx.Encoder) { e.Str(reg.Currency().Symbol()) })
		})
	})
}
