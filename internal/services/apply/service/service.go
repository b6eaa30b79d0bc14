// Package service implements the update orchestrator
package service

import (
	"context"
	"sync"

	"dncsweep/internal/core/match"
	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/platform/logger"
	"dncsweep/internal/services/apply/domain"
)

// Config for the apply service
type Config struct {
	Workers       int
	BatchSize     int
	CompanyStatus string
	ContactStatus string
}

// Service implements domain.ApplierPort
type Service struct {
	Store domain.RecordStorePort
	Cfg   Config
}

// New constructs an apply service
func New(store domain.RecordStorePort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.CompanyStatus == "" {
		cfg.CompanyStatus = "Do Not Contact"
	}
	if cfg.ContactStatus == "" {
		cfg.ContactStatus = "Do Not Contact"
	}
	return &Service{Store: store, Cfg: cfg}
}

// Apply propagates auto-exclude verdicts to the record store. Review and
// no-action verdicts are never written. Companies fan out to a bounded
// worker pool; within one company the mutations run in order (status read,
// status write, then contact batches). An unauthorized or forbidden error
// cancels the remainder of the run; updates that already landed stay put
func (s *Service) Apply(ctx context.Context, verdicts []match.Verdict) (*domain.Outcome, error) {
	log := logger.C(ctx)

	var targets []match.Verdict
	for _, v := range verdicts {
		if v.Action == match.ActionAutoExclude {
			targets = append(targets, v)
		}
	}

	out := &domain.Outcome{}
	if len(targets) == 0 {
		return out, ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once  sync.Once
		fatal error
	)
	abort := func(err error) {
		once.Do(func() {
			fatal = err
			cancel()
		})
	}

	// slot per verdict keeps result ordering stable across scheduling
	per := make([][]domain.UpdateResult, len(targets))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}
	for i := range targets {
		if runCtx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			per[i] = s.applyCompany(runCtx, targets[i], abort)
		}(i)
	}
	wg.Wait()

	for _, rs := range per {
		for _, r := range rs {
			out.Record(r)
		}
	}

	log.Info().
		Int("companies_updated", out.CompaniesUpdated).
		Int("companies_already_set", out.CompaniesAlreadySet).
		Int("companies_failed", out.CompaniesFailed).
		Int("contacts_updated", out.ContactsUpdated).
		Int("contacts_already_set", out.ContactsAlreadySet).
		Int("contacts_failed", out.ContactsFailed).
		Msg("apply pass complete")

	if fatal != nil {
		return out, fatal
	}
	return out, ctx.Err()
}

// applyCompany pushes one verdict's updates through the store. The company
// status is read before it is written, so replays converge to already_set.
// Contacts are still swept when the company was already set; a partial run
// that updated the company but not its contacts finishes on the next pass
func (s *Service) applyCompany(ctx context.Context, v match.Verdict, abort func(error)) []domain.UpdateResult {
	var rs []domain.UpdateResult
	if ctx.Err() != nil {
		return rs
	}

	cur, err := s.Store.GetCompanyStatus(ctx, v.CompanyID)
	if err != nil {
		return s.entityFailed(rs, v.CompanyID, domain.TargetCompany, err, abort)
	}

	if cur == s.Cfg.CompanyStatus {
		rs = append(rs, domain.UpdateResult{
			TargetID:   v.CompanyID,
			TargetType: domain.TargetCompany,
			Status:     domain.StatusAlreadySet,
		})
	} else {
		if err := s.Store.UpdateCompanyStatus(ctx, v.CompanyID, s.Cfg.CompanyStatus); err != nil {
			return s.entityFailed(rs, v.CompanyID, domain.TargetCompany, err, abort)
		}
		rs = append(rs, domain.UpdateResult{
			TargetID:   v.CompanyID,
			TargetType: domain.TargetCompany,
			Status:     domain.StatusUpdated,
		})
	}

	ids, err := s.Store.ListCompanyContactIDs(ctx, v.CompanyID)
	if err != nil {
		return s.entityFailed(rs, v.CompanyID, domain.TargetContact, err, abort)
	}

	for start := 0; start < len(ids); start += s.Cfg.BatchSize {
		if ctx.Err() != nil {
			return rs
		}
		chunk := ids[start:min(start+s.Cfg.BatchSize, len(ids))]

		contacts, err := s.Store.BatchReadContacts(ctx, chunk)
		if err != nil {
			for _, id := range chunk {
				rs = append(rs, failed(id, domain.TargetContact, err))
			}
			if perr.Permanent(err) {
				abort(err)
				return rs
			}
			continue
		}

		var pending []string
		for _, c := range contacts {
			if c.Status == s.Cfg.ContactStatus {
				rs = append(rs, domain.UpdateResult{
					TargetID:   c.ID,
					TargetType: domain.TargetContact,
					Status:     domain.StatusAlreadySet,
				})
				continue
			}
			pending = append(pending, c.ID)
		}
		if len(pending) == 0 {
			continue
		}

		if err := s.Store.BatchUpdateContactStatus(ctx, pending, s.Cfg.ContactStatus); err != nil {
			for _, id := range pending {
				rs = append(rs, failed(id, domain.TargetContact, err))
			}
			if perr.Permanent(err) {
				abort(err)
				return rs
			}
			continue
		}
		for _, id := range pending {
			rs = append(rs, domain.UpdateResult{
				TargetID:   id,
				TargetType: domain.TargetContact,
				Status:     domain.StatusUpdated,
			})
		}
	}
	return rs
}

func (s *Service) entityFailed(
	rs []domain.UpdateResult,
	id string,
	tt domain.TargetType,
	err error,
	abort func(error),
) []domain.UpdateResult {
	rs = append(rs, failed(id, tt, err))
	if perr.Permanent(err) {
		abort(err)
	}
	return rs
}

func failed(id string, tt domain.TargetType, err error) domain.UpdateResult {
	return domain.UpdateResult{
		TargetID:    id,
		TargetType:  tt,
		Status:      domain.StatusFailed,
		ErrorDetail: err.Error(),
	}
}
