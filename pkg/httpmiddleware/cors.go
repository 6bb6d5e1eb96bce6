package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to make cross-origin requests.
	// Empty, or a single "*", allows every origin.
	AllowOrigins []string

	// AllowHeaders lists request headers clients may send. When empty, the
	// preflight echoes back whatever headers the browser asked for.
	AllowHeaders []string

	// AllowCredentials permits cookies and auth headers on cross-origin
	// requests. The wildcard origin is never sent with credentials; the
	// specific origin is echoed instead.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the header.
	MaxAge int
}

const corsMethods = "GET, POST, PUT, DELETE, OPTIONS"

// CORS returns a middleware that answers preflight requests and stamps
// Access-Control headers on cross-origin responses. Vary headers are set on
// every branch so shared caches never serve one origin's response to another.
func CORS(cfg CORSConfig) Middleware {
	wildcard := len(cfg.AllowOrigins) == 0
	allowed := make(map[string]string, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[strings.ToLower(o)] = o
	}
	if cfg.AllowCredentials {
		wildcard = false
	}

	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")

	resolve := func(origin string) string {
		if wildcard {
			return "*"
		}
		return allowed[strings.ToLower(origin)]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			hdr := w.Header()
			preflight := r.Method == http.MethodOptions &&
				r.Header.Get("Access-Control-Request-Method") != ""

			hdr.Add("Vary", "Origin")
			if preflight {
				hdr.Add("Vary", "Access-Control-Request-Method")
				hdr.Add("Vary", "Access-Control-Request-Headers")
			}

			allowOrigin := resolve(origin)
			if allowOrigin == "" {
				// Unknown origin: no CORS headers, preflights still get 204.
				if preflight {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			hdr.Set("Access-Control-Allow-Origin", allowOrigin)
			if cfg.AllowCredentials {
				hdr.Set("Access-Control-Allow-Credentials", "true")
			}

			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			hdr.Set("Access-Control-Allow-Methods", corsMethods)
			switch {
			case allowHeaders != "":
				hdr.Set("Access-Control-Allow-Headers", allowHeaders)
			default:
				if rh := r.Header.Get("Access-Control-Request-Headers"); rh != "" {
					hdr.Set("Access-Control-Allow-Headers", rh)
				}
			}
			if cfg.MaxAge > 0 {
				hdr.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}
