package middleware

import (
	"net/http"

	pnet "dncsweep/internal/platform/net"
)

// ClientCtx lifts the client query parameter onto the request context so
// handlers and the request logger read the tenant from one place
func ClientCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.URL.Query().Get("client"); c != "" {
			r = r.WithContext(pnet.WithRequest(r.Context(), "", c))
		}
		next.ServeHTTP(w, r)
	})
}
