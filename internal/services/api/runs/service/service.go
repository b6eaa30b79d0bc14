// Package service provides the runs API service implementation
package service

import (
	"context"

	"github.com/google/uuid"

	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/services/api/runs/domain"
	ledgerdom "dncsweep/internal/services/ledger/domain"
)

// Service answers runs API queries against the ledger
type Service struct {
	Ledger ledgerdom.QueryPort
}

// New constructs a runs API service
func New(ledger ledgerdom.QueryPort) *Service {
	return &Service{Ledger: ledger}
}

// List returns run heads, newest first
func (s *Service) List(ctx context.Context, client string, limit, offset int) ([]domain.RunHeadDTO, error) {
	heads, err := s.Ledger.ListRuns(ctx, client, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RunHeadDTO, 0, len(heads))
	for _, h := range heads {
		out = append(out, headDTO(h))
	}
	return out, nil
}

// Get returns one run with verdicts and updates
func (s *Service) Get(ctx context.Context, rawID string) (*domain.RunDTO, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, perr.InvalidArgf("bad run id %q", rawID)
	}
	run, err := s.Ledger.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := &domain.RunDTO{
		RunHeadDTO: headDTO(ledgerdom.RunHead{
			RunID:      run.RunID,
			Client:     run.Client,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Counts:     run.Counts,
		}),
		Warnings: run.Warnings,
	}
	for _, v := range run.Verdicts {
		dto.Verdicts = append(dto.Verdicts, domain.VerdictDTO{
			CompanyID:   v.CompanyID,
			CompanyName: v.CompanyName,
			MatchedName: v.MatchedName,
			Tier:        string(v.Tier),
			Confidence:  v.Confidence,
			Action:      string(v.Action),
		})
	}
	for _, u := range run.Updates {
		dto.Updates = append(dto.Updates, domain.UpdateDTO{
			TargetID:    u.TargetID,
			TargetType:  u.TargetType,
			Status:      u.Status,
			ErrorDetail: u.ErrorDetail,
		})
	}
	return dto, nil
}

// ReviewQueue returns unresolved review verdicts, newest first
func (s *Service) ReviewQueue(ctx context.Context, client string, limit, offset int) ([]domain.ReviewItemDTO, error) {
	items, err := s.Ledger.ListReviewQueue(ctx, client, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReviewItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ReviewItemDTO{
			RunID:       it.RunID.String(),
			CompanyID:   it.CompanyID,
			CompanyName: it.CompanyName,
			MatchedName: it.MatchedName,
			Confidence:  it.Confidence,
			FinishedAt:  it.FinishedAt,
		})
	}
	return out, nil
}

// Resolve stamps a human decision on one review verdict
func (s *Service) Resolve(ctx context.Context, rawRunID, companyID string, in domain.ResolveInput) error {
	id, err := uuid.Parse(rawRunID)
	if err != nil {
		return perr.InvalidArgf("bad run id %q", rawRunID)
	}
	return s.Ledger.ResolveReview(ctx, id, companyID, ledgerdom.Resolution(in.Resolution), in.Note)
}

func headDTO(h ledgerdom.RunHead) domain.RunHeadDTO {
	return domain.RunHeadDTO{
		RunID:      h.RunID.String(),
		Client:     h.Client,
		StartedAt:  h.StartedAt,
		FinishedAt: h.FinishedAt,
		Checked:    h.Counts.Checked,
		Matched:    h.Counts.Matched,
		AutoExcl:   h.Counts.AutoExcluded,
		Review:     h.Counts.Review,
	}
}
