// Package http provides http transport for the runs API
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dncsweep/internal/modkit/httpkit"
	pnet "dncsweep/internal/platform/net"
	"dncsweep/internal/services/api/runs/domain"
	svc "dncsweep/internal/services/api/runs/service"
)

// Register mounts runs endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	// run history
	httpkit.Get(r, "/runs", h.list)
	httpkit.Get(r, "/runs/{id}", h.get)

	// review follow-up
	httpkit.Get(r, "/review", h.queue)
	httpkit.PostJSON[domain.ResolveInput](r, "/review/{run_id}/{company_id}", h.resolve)
}

type handlers struct{ svc *svc.Service }

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	client, limit, offset := pageParams(r)
	return h.svc.List(r.Context(), client, limit, offset)
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}

func (h *handlers) queue(r *stdhttp.Request) (any, error) {
	client, limit, offset := pageParams(r)
	return h.svc.ReviewQueue(r.Context(), client, limit, offset)
}

func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	runID := chi.URLParam(r, "run_id")
	companyID := chi.URLParam(r, "company_id")
	if err := h.svc.Resolve(r.Context(), runID, companyID, in); err != nil {
		return nil, err
	}
	return map[string]string{"run_id": runID, "company_id": companyID, "resolution": in.Resolution}, nil
}

func pageParams(r *stdhttp.Request) (client string, limit, offset int) {
	q := r.URL.Query()
	// ClientCtx has already lifted the tenant onto the context
	client = pnet.Client(r.Context())
	if client == "" {
		client = q.Get("client")
	}
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return client, limit, offset
}
