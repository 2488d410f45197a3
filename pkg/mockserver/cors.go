package mockserver

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the preflight short-circuit a mock server instance
// applies before consulting the interaction matcher. When enabled, an
// OPTIONS request carrying both an Origin and an
// Access-Control-Request-Method header is answered directly with
// the configured CORS headers and a 200, without being recorded as a
// received request or matched against any interaction — a consumer
// under test never has an expected interaction for the browser's own
// preflight probe.
type CORSConfig struct {
	Enabled bool
	Origins []string // "*" or an explicit allow-list; empty means "*"
	Headers []string // fallback Allow-Headers list when a preflight omits Access-Control-Request-Headers
	MaxAge  int      // seconds
}

// DefaultCORSConfig mirrors the permissive local-development default the
// rest of the toolkit uses: any origin, and the common request headers a
// JSON/XML consumer client sends. Allow-Methods is never taken from
// config — it is always derived per spec.md §4.4 from the methods the
// running contract's interactions actually reference.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled: true,
		Origins: []string{"*"},
		Headers: []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		MaxAge:  86400,
	}
}

func (c CORSConfig) allowOrigin(origin string) string {
	if len(c.Origins) == 0 {
		return "*"
	}
	for _, o := range c.Origins {
		if o == "*" || o == origin {
			return o
		}
	}
	return ""
}

// isPreflight reports whether r is a CORS preflight request: OPTIONS
// with both an Origin and an Access-Control-Request-Method header.
func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions &&
		r.Header.Get("Origin") != "" &&
		r.Header.Get("Access-Control-Request-Method") != ""
}

// serve answers a preflight request per spec §4.4: Allow-Origin echoes
// the request's Origin (or "*"), Allow-Methods is every method
// referenced by the contract's interactions plus OPTIONS (not the
// static config default), Allow-Headers echoes the requested header
// list verbatim, and Allow-Credentials is always true.
func (c CORSConfig) serve(w http.ResponseWriter, r *http.Request, interactionMethods []string) {
	origin := r.Header.Get("Origin")
	allow := c.allowOrigin(origin)
	if allow == "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", strings.Join(allowMethods(interactionMethods), ", "))
	h.Set("Access-Control-Allow-Headers", allowHeaders(r, c.Headers))
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
	w.WriteHeader(http.StatusOK)
}

// allowMethods unions the contract's interaction methods with OPTIONS,
// preserving first-seen order and de-duplicating case-insensitively.
func allowMethods(interactionMethods []string) []string {
	seen := make(map[string]bool, len(interactionMethods)+1)
	out := make([]string, 0, len(interactionMethods)+1)
	add := func(m string) {
		u := strings.ToUpper(m)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	for _, m := range interactionMethods {
		add(m)
	}
	add(http.MethodOptions)
	return out
}

// allowHeaders echoes the preflight request's own requested header list
// verbatim; falling back to the configured default only when the
// client omitted Access-Control-Request-Headers entirely.
func allowHeaders(r *http.Request, fallback []string) string {
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		return requested
	}
	return strings.Join(fallback, ", ")
}
