// Package service implements the screening engine
package service

import (
	"context"
	"sync"

	"dncsweep/internal/core/match"
	"dncsweep/internal/core/similarity"
	"dncsweep/internal/platform/logger"
	"dncsweep/internal/services/screen/domain"
)

// Config for the screen service
type Config struct {
	Client     string
	Workers    int
	PageSize   int
	Thresholds match.Thresholds
	Scorer     similarity.Scorer
}

// Service implements domain.ScreenerPort
type Service struct {
	Roster domain.RosterPort
	Supp   domain.SuppressionPort
	Cfg    Config
}

// New constructs a screen service
func New(roster domain.RosterPort, supp domain.SuppressionPort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Scorer == nil {
		cfg.Scorer = similarity.TokenSort{}
	}
	if cfg.Thresholds == (match.Thresholds{}) {
		cfg.Thresholds = match.DefaultThresholds
	}
	return &Service{Roster: roster, Supp: supp, Cfg: cfg}
}

// result carries one worker outcome to the aggregator
type result struct {
	i  int
	v  match.Verdict
	ok bool
}

// Screen loads the suppression list, pages the roster, and matches every
// company. Matching fans out to a bounded worker pool; a single aggregator
// goroutine owns all counters and verdict slots, so no counts are shared.
// Verdicts come back in roster input order regardless of worker scheduling
func (s *Service) Screen(ctx context.Context) (*domain.Report, error) {
	log := logger.C(ctx)

	entries, warnings, err := s.Supp.Load(ctx, s.Cfg.Client)
	if err != nil {
		return nil, err
	}

	ix := match.NewIndex(entries)
	matcher := match.NewMatcher(ix, s.Cfg.Scorer, s.Cfg.Thresholds)

	rep := &domain.Report{Client: s.Cfg.Client, Warnings: warnings}
	rep.Counts.SuppressionLoaded = ix.Len()
	rep.Counts.SuppressionSkipped = ix.Skipped()

	if ix.Len() == 0 {
		log.Warn().Msg("suppression list is empty, screening will match nothing")
	}

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		companies, next, err := s.Roster.ListCompanies(ctx, after, s.Cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if len(companies) == 0 {
			break
		}

		// slot per roster position keeps output ordering stable
		page := make([]match.Verdict, len(companies))
		hit := make([]bool, len(companies))

		results := make(chan result)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for r := range results {
				rep.Counts.Checked++
				if r.ok {
					page[r.i] = r.v
					hit[r.i] = true
					rep.Counts.Tally(r.v)
				}
			}
		}()

		sem := make(chan struct{}, s.Cfg.Workers)
		wg := sync.WaitGroup{}
		for i := range companies {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; wg.Done() }()
				v, ok := matcher.Match(companies[i])
				results <- result{i: i, v: v, ok: ok}
			}(i)
		}
		wg.Wait()
		close(results)
		<-done

		for i := range companies {
			if hit[i] {
				rep.Verdicts = append(rep.Verdicts, page[i])
			}
		}

		if next == "" {
			break
		}
		after = next
	}

	log.Info().
		Int("checked", rep.Counts.Checked).
		Int("matched", rep.Counts.Matched).
		Int("auto_excluded", rep.Counts.AutoExcluded).
		Int("review", rep.Counts.Review).
		Msg("screening pass complete")

	return rep, nil
}
