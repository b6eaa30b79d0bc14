package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"dncsweep/internal/core/match"
	"dncsweep/internal/services/screen/domain"
)

type fakeRoster struct {
	pages [][]match.Company
	calls int
}

func (f *fakeRoster) ListCompanies(_ context.Context, after string, _ int) ([]match.Company, string, error) {
	idx := 0
	if after != "" {
		if _, err := fmt.Sscanf(after, "p%d", &idx); err != nil {
			return nil, "", err
		}
	}
	f.calls++
	if idx >= len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(f.pages) {
		next = fmt.Sprintf("p%d", idx+1)
	}
	return f.pages[idx], next, nil
}

type fakeSupp struct {
	entries  []match.Entry
	warnings []string
	err      error
}

func (f *fakeSupp) Load(context.Context, string) ([]match.Entry, []string, error) {
	return f.entries, f.warnings, f.err
}

func testEntries() []match.Entry {
	return []match.Entry{
		match.NewEntry("Acme, Inc.", "acme.com"),
		match.NewEntry("Globex Corporation", "globex.com"),
	}
}

func TestScreenVerdictsInRosterOrder(t *testing.T) {
	roster := &fakeRoster{pages: [][]match.Company{
		{
			{ID: "c-1", Name: "Zeta Widgets"},
			{ID: "c-2", Name: "ACME INC"},
			{ID: "c-3", Name: "Globex Worldwide", Domain: "https://www.globex.com/"},
		},
		{
			{ID: "c-4", Name: "Acme"},
		},
	}}
	svc := New(roster, &fakeSupp{entries: testEntries()}, Config{Client: "acme-tenant", Workers: 3})

	rep, err := svc.Screen(context.Background())
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}

	var ids []string
	for _, v := range rep.Verdicts {
		ids = append(ids, v.CompanyID)
	}
	if want := []string{"c-2", "c-3", "c-4"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("verdict order: got %v want %v", ids, want)
	}
	if rep.Counts.Checked != 4 || rep.Counts.Matched != 3 {
		t.Fatalf("counts: %+v", rep.Counts)
	}
	if rep.Counts.TierExact != 2 || rep.Counts.TierDomain != 1 {
		t.Fatalf("tier counts: %+v", rep.Counts)
	}
}

func TestScreenDeterministic(t *testing.T) {
	page := []match.Company{
		{ID: "c-1", Name: "Acme Industrie"},
		{ID: "c-2", Name: "ACME INC"},
		{ID: "c-3", Name: "Unrelated"},
		{ID: "c-4", Name: "Globex Corporation"},
	}
	build := func() *domain.Report {
		roster := &fakeRoster{pages: [][]match.Company{page}}
		svc := New(roster, &fakeSupp{entries: testEntries()}, Config{Client: "t", Workers: 8})
		rep, err := svc.Screen(context.Background())
		if err != nil {
			t.Fatalf("Screen: %v", err)
		}
		return rep
	}

	first := build()
	for i := 0; i < 10; i++ {
		if got := build(); !reflect.DeepEqual(got.Verdicts, first.Verdicts) || got.Counts != first.Counts {
			t.Fatalf("run %d diverged:\n%+v\nvs\n%+v", i, got, first)
		}
	}
}

func TestScreenEmptySuppression(t *testing.T) {
	roster := &fakeRoster{pages: [][]match.Company{{{ID: "c-1", Name: "Acme"}}}}
	svc := New(roster, &fakeSupp{}, Config{Client: "t"})

	rep, err := svc.Screen(context.Background())
	if err != nil {
		t.Fatalf("empty suppression list must not error: %v", err)
	}
	if len(rep.Verdicts) != 0 || rep.Counts.Checked != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestScreenPropagatesWarnings(t *testing.T) {
	roster := &fakeRoster{pages: nil}
	svc := New(roster, &fakeSupp{entries: testEntries(), warnings: []string{"row 3: missing company_name"}}, Config{Client: "t"})

	rep, err := svc.Screen(context.Background())
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if len(rep.Warnings) != 1 {
		t.Fatalf("warnings should pass through, got %v", rep.Warnings)
	}
	if rep.Counts.SuppressionLoaded != 2 {
		t.Fatalf("counts: %+v", rep.Counts)
	}
}

func TestScreenSuppressionError(t *testing.T) {
	svc := New(&fakeRoster{}, &fakeSupp{err: errors.New("drop dir missing")}, Config{Client: "t"})
	if _, err := svc.Screen(context.Background()); err == nil {
		t.Fatalf("supplier failure must fail the run")
	}
}

func TestScreenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	roster := &fakeRoster{pages: [][]match.Company{{{ID: "c-1", Name: "Acme"}}}}
	svc := New(roster, &fakeSupp{entries: testEntries()}, Config{Client: "t"})
	if _, err := svc.Screen(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
