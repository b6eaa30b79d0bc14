package domain

import (
	"context"
	"io"

	"github.com/google/uuid"

	"dncsweep/internal/core/match"
)

// RecorderPort persists a finalized run summary
type RecorderPort interface {
	Record(ctx context.Context, run *RunSummary) error
}

// QueryPort reads the run ledger
type QueryPort interface {
	GetRun(ctx context.Context, runID uuid.UUID) (*RunSummary, error)
	ListRuns(ctx context.Context, client string, limit, offset int) ([]RunHead, error)
	ListReviewQueue(ctx context.Context, client string, limit, offset int) ([]ReviewItem, error)
	ResolveReview(ctx context.Context, runID uuid.UUID, companyID string, res Resolution, note string) error
}

// AuditPort renders the flat audit file for a run
type AuditPort interface {
	WriteAudit(run *RunSummary, w io.Writer) error
	ExportAudit(run *RunSummary) (string, error)
}

// StorageRepo is the persistence surface the service binds per queryer
type StorageRepo interface {
	InsertRun(ctx context.Context, run *RunSummary) error
	InsertVerdicts(ctx context.Context, runID uuid.UUID, vs []match.Verdict) error
	InsertUpdates(ctx context.Context, runID uuid.UUID, us []UpdateRecord) error

	GetRun(ctx context.Context, runID uuid.UUID) (*RunSummary, error)
	ListRuns(ctx context.Context, client string, limit, offset int) ([]RunHead, error)
	ListReviewQueue(ctx context.Context, client string, limit, offset int) ([]ReviewItem, error)
	ResolveReview(ctx context.Context, runID uuid.UUID, companyID string, res Resolution, note string) error
}
