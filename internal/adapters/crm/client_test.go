package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	perr "dncsweep/internal/platform/errors"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:           srv.URL,
		Token:             "test-token",
		CompanyNameProp:   "name",
		CompanyDomainProp: "domain",
		CompanyStatusProp: "dnc_status",
		ContactStatusProp: "contact_status",
		MaxRetries:        3,
		RetryBase:         time.Millisecond,
		MinInterval:       0,
	})
	c.sleep = func(time.Duration) {}
	return c
}

func TestListCompaniesPagination(t *testing.T) {
	var afters []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header: %q", got)
		}
		after := r.URL.Query().Get("after")
		afters = append(afters, after)
		switch after {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"id": "c-1", "properties": map[string]string{"name": "Acme", "domain": "acme.com"}},
				},
				"paging": map[string]any{"next": map[string]string{"after": "cur-2"}},
			})
		case "cur-2":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"id": "c-2", "properties": map[string]string{"name": "Globex"}},
				},
			})
		default:
			t.Errorf("unexpected cursor %q", after)
		}
	})

	ctx := context.Background()
	first, next, err := c.ListCompanies(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(first) != 1 || first[0].ID != "c-1" || first[0].Domain != "acme.com" || next != "cur-2" {
		t.Fatalf("first page: %+v next=%q", first, next)
	}

	second, next, err := c.ListCompanies(ctx, next, 100)
	if err != nil {
		t.Fatalf("ListCompanies page 2: %v", err)
	}
	if len(second) != 1 || second[0].ID != "c-2" || next != "" {
		t.Fatalf("second page: %+v next=%q", second, next)
	}
}

func TestDoRetriesOn429ThenSucceeds(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "c-1", "properties": map[string]string{"dnc_status": "Do Not Contact"},
		})
	})

	status, err := c.GetCompanyStatus(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetCompanyStatus: %v", err)
	}
	if status != "Do Not Contact" || calls != 3 {
		t.Fatalf("status=%q calls=%d", status, calls)
	}
}

func TestDoExhaustsRetriesOn503(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.UpdateCompanyStatus(context.Background(), "c-1", "Do Not Contact")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if !perr.Retryable(err) {
		t.Fatalf("exhausted 503 should still classify retryable")
	}
	// MaxRetries=3 means 4 attempts total
	if calls != 4 {
		t.Fatalf("attempts: %d", calls)
	}
}

func TestDoPermanent401NoRetry(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetCompanyStatus(context.Background(), "c-1")
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !perr.Permanent(err) {
		t.Fatalf("401 must classify permanent")
	}
	if calls != 1 {
		t.Fatalf("401 must not be retried, got %d calls", calls)
	}
}

func TestBatchUpdateContactStatusPayload(t *testing.T) {
	var got batchUpdateRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/contacts/batch/update" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.BatchUpdateContactStatus(context.Background(), []string{"p-1", "p-2"}, "Do Not Contact"); err != nil {
		t.Fatalf("BatchUpdateContactStatus: %v", err)
	}
	if len(got.Inputs) != 2 || got.Inputs[1].Properties["contact_status"] != "Do Not Contact" {
		t.Fatalf("payload: %+v", got)
	}
}

func TestListCompanyContactIDsFollowsCursor(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"id": "p-1"}, {"id": "p-2"}},
				"paging":  map[string]any{"next": map[string]string{"after": "x"}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "p-3"}},
		})
	})

	ids, err := c.ListCompanyContactIDs(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListCompanyContactIDs: %v", err)
	}
	if len(ids) != 3 || ids[2] != "p-3" {
		t.Fatalf("ids: %v", ids)
	}
}

func TestPaceEnforcesSpacing(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://unused", Token: "t", MinInterval: 50 * time.Millisecond})

	base := time.Unix(1000, 0)
	clock := base
	var slept []time.Duration
	c.now = func() time.Time { return clock }
	c.sleep = func(d time.Duration) { slept = append(slept, d); clock = clock.Add(d) }

	c.pace() // first call goes straight through
	c.pace()
	c.pace()

	if len(slept) != 2 || slept[0] != 50*time.Millisecond || slept[1] != 50*time.Millisecond {
		t.Fatalf("pacing sleeps: %v", slept)
	}
}

func TestBatchReadContactsEmptyInput(t *testing.T) {
	c := testClient(t, func(http.ResponseWriter, *http.Request) {
		t.Errorf("no call expected for empty batch")
	})
	out, err := c.BatchReadContacts(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("empty batch: %v %v", out, err)
	}
}
