package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "dncsweep/internal/platform/net"
)

func TestClientCtxLiftsQueryParam(t *testing.T) {
	var got string
	h := ClientCtx(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = pnet.Client(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/runs?client=acme", nil))
	if got != "acme" {
		t.Fatalf("client on context: got %q", got)
	}

	got = "unset"
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/runs", nil))
	if got != "" {
		t.Fatalf("missing param should leave context empty, got %q", got)
	}
}
