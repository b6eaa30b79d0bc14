package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dncsweep/internal/modkit"
	phttp "dncsweep/internal/platform/net/http"
	"dncsweep/internal/platform/testkit"
	"dncsweep/internal/services/api/runs/domain"
	ledgerdom "dncsweep/internal/services/ledger/domain"
)

type fakeQuery struct {
	runID    uuid.UUID
	resolved []string
}

func (f *fakeQuery) GetRun(_ context.Context, runID uuid.UUID) (*ledgerdom.RunSummary, error) {
	return &ledgerdom.RunSummary{RunID: runID, Client: "acme"}, nil
}

func (f *fakeQuery) ListRuns(_ context.Context, _ string, _, _ int) ([]ledgerdom.RunHead, error) {
	return []ledgerdom.RunHead{{
		RunID:      f.runID,
		Client:     "acme",
		StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}}, nil
}

func (f *fakeQuery) ListReviewQueue(_ context.Context, _ string, _, _ int) ([]ledgerdom.ReviewItem, error) {
	return nil, nil
}

func (f *fakeQuery) ResolveReview(_ context.Context, runID uuid.UUID, companyID string, res ledgerdom.Resolution, _ string) error {
	f.resolved = append(f.resolved, runID.String()+"/"+companyID+"/"+string(res))
	return nil
}

func newRouter() (phttp.Router, *chi.Mux) {
	m := chi.NewRouter()
	return phttp.AdaptChi(m), m
}

func TestNewPanicsWithoutPorts(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}) })
	testkit.MustPanic(t, func() {
		New(modkit.Deps{}, modkit.WithPorts(domain.Ports{}))
	})
}

func TestMountRoutesAtRoot(t *testing.T) {
	fq := &fakeQuery{runID: uuid.New()}
	m := New(modkit.Deps{}, modkit.WithPorts(domain.Ports{Ledger: fq}))

	r, mux := newRouter()
	m.MountRoutes(r)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /runs: status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), fq.runID.String()) {
		t.Fatalf("GET /runs: body missing run id: %s", rec.Body.String())
	}
}

func TestMountRoutesUnderPrefix(t *testing.T) {
	fq := &fakeQuery{runID: uuid.New()}
	var sawMw bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawMw = true
			next.ServeHTTP(w, r)
		})
	}
	m := New(
		modkit.Deps{},
		modkit.WithPrefix("ops/"),
		modkit.WithMiddlewares(mw),
		modkit.WithPorts(domain.Ports{Ledger: fq}),
	)

	r, mux := newRouter()
	m.MountRoutes(r)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ops/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ops/runs: status %d", rec.Code)
	}
	if !sawMw {
		t.Fatalf("module middleware not applied")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /runs outside prefix: status %d", rec.Code)
	}
}

func TestResolveValidatesBody(t *testing.T) {
	fq := &fakeQuery{runID: uuid.New()}
	m := New(modkit.Deps{}, modkit.WithPorts(domain.Ports{Ledger: fq}))

	r, mux := newRouter()
	m.MountRoutes(r)

	runID := uuid.New()
	path := "/review/" + runID.String() + "/c-1"

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"resolution":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	if rec.Code < 400 {
		t.Fatalf("bogus resolution accepted: status %d", rec.Code)
	}
	if len(fq.resolved) != 0 {
		t.Fatalf("bogus resolution reached the ledger: %v", fq.resolved)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"resolution":"cleared","note":"manual check"}`))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: status %d body %s", rec.Code, rec.Body.String())
	}
	want := runID.String() + "/c-1/cleared"
	if len(fq.resolved) != 1 || fq.resolved[0] != want {
		t.Fatalf("resolve recorded %v, want %q", fq.resolved, want)
	}
}
