// Package service implements the run ledger
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"dncsweep/internal/modkit/repokit"
	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/platform/logger"
	"dncsweep/internal/services/ledger/domain"
)

// Config for the ledger service
type Config struct {
	// AuditDir is where audit CSVs land; empty disables the export
	AuditDir string
}

// Service implements domain.RecorderPort, domain.QueryPort, and domain.AuditPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config
}

// New constructs a ledger service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	return &Service{DB: db, Binder: binder, Cfg: cfg}
}

// Record finalizes the summary and persists it in one transaction.
// Replaying the same run id inserts nothing and is not an error
func (s *Service) Record(ctx context.Context, run *domain.RunSummary) error {
	if run == nil {
		return perr.InvalidArgf("nil run summary")
	}
	run.Finalize()

	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		if err := r.InsertRun(ctx, run); err != nil {
			return err
		}
		if err := r.InsertVerdicts(ctx, run.RunID, run.Verdicts); err != nil {
			return err
		}
		return r.InsertUpdates(ctx, run.RunID, run.Updates)
	})
	if err != nil {
		return err
	}

	logger.C(ctx).Info().
		Str("run_id", run.RunID.String()).
		Int("verdicts", len(run.Verdicts)).
		Int("updates", len(run.Updates)).
		Msg("run recorded")
	return nil
}

// WriteAudit renders the flat audit view of a run, one row per verdict
func (s *Service) WriteAudit(run *domain.RunSummary, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"entity_name", "matched_suppression_name", "tier",
		"confidence", "action", "run_id", "timestamp",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	ts := run.FinishedAt.UTC().Format(time.RFC3339)
	for _, v := range run.Verdicts {
		row := []string{
			v.CompanyName, v.MatchedName, string(v.Tier),
			strconv.Itoa(v.Confidence), string(v.Action),
			run.RunID.String(), ts,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportAudit writes the audit CSV into the configured directory
func (s *Service) ExportAudit(run *domain.RunSummary) (string, error) {
	if s.Cfg.AuditDir == "" {
		return "", perr.InvalidArgf("audit dir not configured")
	}
	if err := os.MkdirAll(s.Cfg.AuditDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("audit_%s_%s.csv", run.Client, run.RunID)
	path := filepath.Join(s.Cfg.AuditDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := s.WriteAudit(run, f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// GetRun implements domain.QueryPort
func (s *Service) GetRun(ctx context.Context, runID uuid.UUID) (*domain.RunSummary, error) {
	return repokit.MustBind(s.Binder, s.DB).GetRun(ctx, runID)
}

// ListRuns implements domain.QueryPort
func (s *Service) ListRuns(ctx context.Context, client string, limit, offset int) ([]domain.RunHead, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return repokit.MustBind(s.Binder, s.DB).ListRuns(ctx, client, limit, offset)
}

// ListReviewQueue implements domain.QueryPort
func (s *Service) ListReviewQueue(ctx context.Context, client string, limit, offset int) ([]domain.ReviewItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return repokit.MustBind(s.Binder, s.DB).ListReviewQueue(ctx, client, limit, offset)
}

// ResolveReview implements domain.QueryPort
func (s *Service) ResolveReview(ctx context.Context, runID uuid.UUID, companyID string, res domain.Resolution, note string) error {
	if !res.Valid() {
		return perr.InvalidArgf("unknown resolution %q", res)
	}
	return repokit.MustBind(s.Binder, s.DB).ResolveReview(ctx, runID, companyID, res, note)
}
