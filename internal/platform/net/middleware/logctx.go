package middleware

import (
	"net/http"

	"dncsweep/internal/platform/logger"
	pnet "dncsweep/internal/platform/net"
)

// LogCtx copies request scoped ids into the logger context so every
// log line downstream carries request_id and client
func LogCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := pnet.RequestID(ctx); id != "" {
			ctx = logger.WithRequest(ctx, id)
		}
		if c := pnet.Client(ctx); c != "" {
			ctx = logger.WithRun(ctx, "", c)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
