package domain

import (
	"context"

	"dncsweep/internal/core/match"
)

// Contact is the slice of a CRM contact the orchestrator needs
type Contact struct {
	ID     string
	Status string
}

// RecordStorePort is the mutation surface against the CRM.
// Implementations own property names, pacing, and transient retry; the
// orchestrator only sees final errors
type RecordStorePort interface {
	GetCompanyStatus(ctx context.Context, companyID string) (string, error)
	UpdateCompanyStatus(ctx context.Context, companyID, value string) error
	ListCompanyContactIDs(ctx context.Context, companyID string) ([]string, error)
	BatchReadContacts(ctx context.Context, ids []string) ([]Contact, error)
	BatchUpdateContactStatus(ctx context.Context, ids []string, value string) error
}

// ApplierPort propagates auto-exclude verdicts to the record store
type ApplierPort interface {
	Apply(ctx context.Context, verdicts []match.Verdict) (*Outcome, error)
}

// Ports are dependencies injected into the apply module
type Ports struct {
	Store RecordStorePort // required
}
