package service

import (
	"context"
	"testing"

	perr "dncsweep/internal/platform/errors"
	ledger "dncsweep/internal/services/ledger/domain"
)

func TestSendNilRun(t *testing.T) {
	if err := New().Send(context.Background(), nil, ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSendLogsSummary(t *testing.T) {
	run := ledger.NewRunSummary("acme-tenant")
	run.Finalize()
	if err := New().Send(context.Background(), run, "audit/audit_acme.csv"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
