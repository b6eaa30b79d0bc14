// Package service implements the log-backed reporting sink
package service

import (
	"context"

	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/platform/logger"
	ledger "dncsweep/internal/services/ledger/domain"
)

// Service implements domain.SinkPort by logging the summary
type Service struct{}

// New constructs a log sink
func New() *Service { return &Service{} }

// Send logs the finalized summary at info level
func (s *Service) Send(ctx context.Context, run *ledger.RunSummary, attachment string) error {
	if run == nil {
		return perr.InvalidArgf("nil run summary")
	}
	ev := logger.C(ctx).Info().
		Str("run_id", run.RunID.String()).
		Str("client", run.Client).
		Time("started_at", run.StartedAt).
		Time("finished_at", run.FinishedAt).
		Int("checked", run.Counts.Checked).
		Int("matched", run.Counts.Matched).
		Int("auto_excluded", run.Counts.AutoExcluded).
		Int("review", run.Counts.Review).
		Int("companies_updated", run.Counts.CompaniesUpdated).
		Int("contacts_updated", run.Counts.ContactsUpdated).
		Int("warnings", len(run.Warnings))
	if attachment != "" {
		ev = ev.Str("attachment", attachment)
	}
	ev.Msg("run summary")
	return nil
}
