// Package handler implements the storefront HTTP API: catalog reads with
// region-resolved pricing, session cart and region state, and the admin
// product CRUD surface.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/threadkart/storefront/internal/domain/auth"
	"github.com/threadkart/storefront/internal/domain/catalog"
	"github.com/threadkart/storefront/internal/domain/money"
	"github.com/threadkart/storefront/internal/domain/region"
	"github.com/threadkart/storefront/internal/storage/kv"
)

const sessionCookie = "sid"

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
	// APIKeyPepper is the HMAC pepper for admin API key hashing.
	APIKeyPepper []byte
}

// Handler wires the domain stores and repositories to HTTP routes.
type Handler struct {
	products     catalog.Repository
	sessions     kv.Store
	apikeys      auth.Repository
	imageBaseURL string
	pepper       []byte
}

// New constructs a Handler with the required dependencies. The sessions store
// persists per-session cart and region state.
func New(cfg Config, products catalog.Repository, sessions kv.Store, apikeys auth.Repository) *Handler {
	return &Handler{
		products:     products,
		sessions:     sessions,
		apikeys:      apikeys,
		imageBaseURL: cfg.ImageBaseURL,
		pepper:       cfg.APIKeyPepper,
	}
}

// Routes returns the API routing table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/products/slug/{slug}", h.getProductBySlug)

	mux.HandleFunc("GET /api/region", h.getRegion)
	mux.HandleFunc("PUT /api/region", h.setRegion)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("DELETE /api/cart/items", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.Handle("POST /api/admin/products", h.requireAPIKey(http.HandlerFunc(h.createProduct)))
	mux.Handle("PUT /api/admin/products/{id}", h.requireAPIKey(http.HandlerFunc(h.updateProduct)))
	mux.Handle("DELETE /api/admin/products/{id}", h.requireAPIKey(http.HandlerFunc(h.deleteProduct)))

	return mux
}

// sessionID resolves the caller's session: the X-Session-ID header wins, then
// the session cookie, and finally a fresh UUID which is also set as a cookie
// so browser clients keep their cart across requests.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func regionKey(sessionID string) string {
	return "region:" + sessionID
}

// regionStore loads the session's region store.
func (h *Handler) regionStore(w http.ResponseWriter, r *http.Request) *region.Store {
	return region.NewStore(r.Context(), h.sessions, regionKey(h.sessionID(w, r)))
}

// requestRegion picks the region for a pricing decision: an explicit region
// query parameter wins over the session's persisted selection.
func (h *Handler) requestRegion(w http.ResponseWriter, r *http.Request) region.Region {
	if q := r.URL.Query().Get("region"); q != "" {
		return region.Normalize(q)
	}
	return h.regionStore(w, r).Get()
}

// imageURL prefixes relative image paths with the configured base URL.
func (h *Handler) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return h.imageBaseURL + path
}

// encodeMoney writes a resolved money value as an object with both the raw
// amount and the display-formatted string.
func encodeMoney(e *jx.Encoder, m money.Money) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("amount", func(e *jx.Encoder) { e.Num(jx.Num(m.Amount.String())) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(string(m.Currency)) })
		e.Field("symbol", func(e *jx.Encoder) { e.Str(m.Symbol) })
		e.Field("formatted", func(e *jx.Encoder) { e.Str(m.Format()) })
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}
