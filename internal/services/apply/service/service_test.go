package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dncsweep/internal/core/match"
	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/services/apply/domain"
)

type fakeStore struct {
	mu        sync.Mutex
	companies map[string]string         // company id -> current status
	contacts  map[string]string         // contact id -> current status
	owned     map[string][]string       // company id -> contact ids
	fail      map[string]error          // company id -> forced read/write error
	writes    []string                  // mutation log
	batches   []int                     // BatchUpdateContactStatus chunk sizes
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: map[string]string{},
		contacts:  map[string]string{},
		owned:     map[string][]string{},
		fail:      map[string]error{},
	}
}

func (f *fakeStore) GetCompanyStatus(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[id]; err != nil {
		return "", err
	}
	return f.companies[id], nil
}

func (f *fakeStore) UpdateCompanyStatus(_ context.Context, id, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["write:"+id]; err != nil {
		return err
	}
	f.companies[id] = value
	f.writes = append(f.writes, "company:"+id)
	return nil
}

func (f *fakeStore) ListCompanyContactIDs(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned[id], nil
}

func (f *fakeStore) BatchReadContacts(_ context.Context, ids []string) ([]domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Contact, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Contact{ID: id, Status: f.contacts[id]})
	}
	return out, nil
}

func (f *fakeStore) BatchUpdateContactStatus(_ context.Context, ids []string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, len(ids))
	for _, id := range ids {
		f.contacts[id] = value
		f.writes = append(f.writes, "contact:"+id)
	}
	return nil
}

func autoVerdict(id string) match.Verdict {
	return match.Verdict{CompanyID: id, Action: match.ActionAutoExclude}
}

func TestApplyUpdatesCompanyThenContacts(t *testing.T) {
	st := newFakeStore()
	st.owned["c-1"] = []string{"p-1", "p-2"}
	svc := New(st, Config{})

	out, err := svc.Apply(context.Background(), []match.Verdict{autoVerdict("c-1")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.CompaniesUpdated != 1 || out.ContactsUpdated != 2 {
		t.Fatalf("counts: %+v", out)
	}
	if len(out.Results) != 3 || out.Results[0].TargetType != domain.TargetCompany {
		t.Fatalf("company update must precede its contacts: %+v", out.Results)
	}
	if st.companies["c-1"] != "Do Not Contact" || st.contacts["p-2"] != "Do Not Contact" {
		t.Fatalf("store not updated: %+v %+v", st.companies, st.contacts)
	}
}

func TestApplyIdempotentReplay(t *testing.T) {
	st := newFakeStore()
	st.companies["c-1"] = "Do Not Contact"
	st.owned["c-1"] = []string{"p-1"}
	st.contacts["p-1"] = "Do Not Contact"
	svc := New(st, Config{})

	out, err := svc.Apply(context.Background(), []match.Verdict{autoVerdict("c-1")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(st.writes) != 0 {
		t.Fatalf("replay must not write, got %v", st.writes)
	}
	if out.CompaniesAlreadySet != 1 || out.ContactsAlreadySet != 1 {
		t.Fatalf("counts: %+v", out)
	}
}

func TestApplySweepsContactsWhenCompanyAlreadySet(t *testing.T) {
	// company landed on a previous run that died before its contacts
	st := newFakeStore()
	st.companies["c-1"] = "Do Not Contact"
	st.owned["c-1"] = []string{"p-1"}
	svc := New(st, Config{})

	out, err := svc.Apply(context.Background(), []match.Verdict{autoVerdict("c-1")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.CompaniesAlreadySet != 1 || out.ContactsUpdated != 1 {
		t.Fatalf("counts: %+v", out)
	}
}

func TestApplySkipsReviewAndNoAction(t *testing.T) {
	st := newFakeStore()
	svc := New(st, Config{})

	out, err := svc.Apply(context.Background(), []match.Verdict{
		{CompanyID: "c-1", Action: match.ActionReview},
		{CompanyID: "c-2", Action: match.ActionNoAction},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Results) != 0 || len(st.writes) != 0 {
		t.Fatalf("review verdicts must never be written: %+v %v", out, st.writes)
	}
}

func TestApplyPartialFailureContinues(t *testing.T) {
	st := newFakeStore()
	st.fail["write:c-1"] = perr.Unavailablef("crm 503")
	st.owned["c-1"] = []string{"p-1"}
	st.owned["c-2"] = []string{"p-2"}
	svc := New(st, Config{Workers: 1})

	out, err := svc.Apply(context.Background(), []match.Verdict{autoVerdict("c-1"), autoVerdict("c-2")})
	if err != nil {
		t.Fatalf("transient failure must not fail the run: %v", err)
	}
	if out.CompaniesFailed != 1 || out.CompaniesUpdated != 1 {
		t.Fatalf("counts: %+v", out)
	}
	// failed entity's contacts are left alone
	if got := st.contacts["p-1"]; got != "" {
		t.Fatalf("contacts of a failed company must not be touched, got %q", got)
	}
	if st.contacts["p-2"] != "Do Not Contact" {
		t.Fatalf("later companies must still be processed")
	}
}

func TestApplyPermanentErrorAborts(t *testing.T) {
	st := newFakeStore()
	st.fail["c-2"] = perr.Unauthorizedf("token revoked")
	svc := New(st, Config{Workers: 1})

	out, err := svc.Apply(context.Background(), []match.Verdict{
		autoVerdict("c-1"), autoVerdict("c-2"), autoVerdict("c-3"),
	})
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if out.CompaniesUpdated != 1 {
		t.Fatalf("completed updates must be preserved: %+v", out)
	}
	for _, r := range out.Results {
		if r.TargetID == "c-3" {
			t.Fatalf("companies after the abort must not be attempted")
		}
	}
}

func TestApplyContactBatchChunking(t *testing.T) {
	st := newFakeStore()
	ids := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		ids = append(ids, contactID(i))
	}
	st.owned["c-1"] = ids
	svc := New(st, Config{BatchSize: 100})

	out, err := svc.Apply(context.Background(), []match.Verdict{autoVerdict("c-1")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.ContactsUpdated != 250 {
		t.Fatalf("counts: %+v", out)
	}
	want := []int{100, 100, 50}
	if len(st.batches) != 3 || st.batches[0] != want[0] || st.batches[1] != want[1] || st.batches[2] != want[2] {
		t.Fatalf("batch sizes: got %v want %v", st.batches, want)
	}
}

func contactID(i int) string {
	const digits = "0123456789"
	return "p-" + string(digits[i/100]) + string(digits[i/10%10]) + string(digits[i%10])
}

func TestApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := newFakeStore()
	svc := New(st, Config{})
	_, err := svc.Apply(ctx, []match.Verdict{autoVerdict("c-1")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(st.writes) != 0 {
		t.Fatalf("cancelled run must not write, got %v", st.writes)
	}
}
