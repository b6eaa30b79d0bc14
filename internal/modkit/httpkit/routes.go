package httpkit

import (
	"net/http"

	pstrings "dncsweep/internal/platform/strings"
)

// MountUnder mounts a subrouter at prefix and applies per-scope middlewares.
// The prefix is normalized to a single leading slash; a bare root panics
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(pstrings.MustPrefix(prefix), func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
