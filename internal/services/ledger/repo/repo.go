// Package repo provides the Postgres repository for the run ledger
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dncsweep/internal/core/match"
	"dncsweep/internal/modkit/repokit"
	perr "dncsweep/internal/platform/errors"
	pstrings "dncsweep/internal/platform/strings"
	"dncsweep/internal/services/ledger/domain"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the ledger tables when they do not exist yet
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgresf(err, "ledger: ensure schema")
	}
	return nil
}

// binder implements repokit.Binder[domain.StorageRepo]
type binder struct{}

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

type pg struct{ q repokit.Queryer }

// InsertRun writes the run head row; replays are a no-op
func (s *pg) InsertRun(ctx context.Context, run *domain.RunSummary) error {
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return perr.JSONErrf("ledger: marshal counts: %v", err)
	}
	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return perr.JSONErrf("ledger: marshal warnings: %v", err)
	}
	const q = `
		INSERT INTO runs (run_id, client, started_at, finished_at, counts, warnings)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING`
	if _, err := s.q.Exec(ctx, q, run.RunID.String(), run.Client, run.StartedAt, run.FinishedAt, counts, warnings); err != nil {
		return perr.FromPostgresf(err, "ledger: insert run")
	}
	return nil
}

// InsertVerdicts writes verdicts in roster order; duplicates are ignored
func (s *pg) InsertVerdicts(ctx context.Context, runID uuid.UUID, vs []match.Verdict) error {
	if len(vs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO run_verdicts
		(run_id, ord, company_id, company_name, matched_name, tier, confidence, action)
		VALUES `)
	args := make([]any, 0, len(vs)*8)
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*8 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, runID.String(), i, v.CompanyID, v.CompanyName, v.MatchedName,
			string(v.Tier), v.Confidence, string(v.Action))
	}
	sb.WriteString(` ON CONFLICT (run_id, company_id) DO NOTHING`)
	if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
		return perr.FromPostgresf(err, "ledger: insert verdicts")
	}
	return nil
}

// InsertUpdates writes update results; duplicates are ignored
func (s *pg) InsertUpdates(ctx context.Context, runID uuid.UUID, us []domain.UpdateRecord) error {
	if len(us) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO run_updates
		(run_id, ord, target_id, target_type, status, error_detail)
		VALUES `)
	args := make([]any, 0, len(us)*6)
	for i, u := range us {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*6 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4, base+5)
		args = append(args, runID.String(), i, u.TargetID, u.TargetType, u.Status, u.ErrorDetail)
	}
	sb.WriteString(` ON CONFLICT (run_id, target_id, target_type) DO NOTHING`)
	if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
		return perr.FromPostgresf(err, "ledger: insert updates")
	}
	return nil
}

// GetRun loads one run with its verdicts and updates in recorded order
func (s *pg) GetRun(ctx context.Context, runID uuid.UUID) (*domain.RunSummary, error) {
	const headQ = `
		SELECT client, started_at, finished_at, counts::text, warnings::text
		FROM runs WHERE run_id = $1`
	run := &domain.RunSummary{RunID: runID}
	var counts, warnings string
	err := s.q.QueryRow(ctx, headQ, runID.String()).
		Scan(&run.Client, &run.StartedAt, &run.FinishedAt, &counts, &warnings)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, perr.NotFoundf("run %s", runID)
		}
		return nil, perr.FromPostgresf(err, "ledger: get run")
	}
	if err := json.Unmarshal([]byte(counts), &run.Counts); err != nil {
		return nil, perr.JSONErrf("ledger: counts for run %s: %v", runID, err)
	}
	if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
		return nil, perr.JSONErrf("ledger: warnings for run %s: %v", runID, err)
	}

	const verdictQ = `
		SELECT company_id, company_name, matched_name, tier, confidence, action
		FROM run_verdicts WHERE run_id = $1 ORDER BY ord`
	rows, err := s.q.Query(ctx, verdictQ, runID.String())
	if err != nil {
		return nil, perr.FromPostgresf(err, "ledger: run verdicts")
	}
	defer rows.Close()
	for rows.Next() {
		var v match.Verdict
		var tier, action string
		if err := rows.Scan(&v.CompanyID, &v.CompanyName, &v.MatchedName, &tier, &v.Confidence, &action); err != nil {
			return nil, perr.FromPostgresf(err, "ledger: scan verdict")
		}
		v.Tier = match.Tier(tier)
		v.Action = match.Action(action)
		run.Verdicts = append(run.Verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "ledger: run verdicts")
	}

	const updateQ = `
		SELECT target_id, target_type, status, error_detail
		FROM run_updates WHERE run_id = $1 ORDER BY ord`
	urows, err := s.q.Query(ctx, updateQ, runID.String())
	if err != nil {
		return nil, perr.FromPostgresf(err, "ledger: run updates")
	}
	defer urows.Close()
	for urows.Next() {
		var u domain.UpdateRecord
		if err := urows.Scan(&u.TargetID, &u.TargetType, &u.Status, &u.ErrorDetail); err != nil {
			return nil, perr.FromPostgresf(err, "ledger: scan update")
		}
		run.Updates = append(run.Updates, u)
	}
	return run, urows.Err()
}

// ListRuns returns run heads, newest first. Empty client means all clients
func (s *pg) ListRuns(ctx context.Context, client string, limit, offset int) ([]domain.RunHead, error) {
	const q = `
		SELECT run_id::text, client, started_at, finished_at, counts::text
		FROM runs
		WHERE ($1 = '' OR client = $1)
		ORDER BY finished_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.q.Query(ctx, q, client, limit, offset)
	if err != nil {
		return nil, perr.FromPostgresf(err, "ledger: list runs")
	}
	defer rows.Close()

	var out []domain.RunHead
	for rows.Next() {
		var h domain.RunHead
		var id, counts string
		if err := rows.Scan(&id, &h.Client, &h.StartedAt, &h.FinishedAt, &counts); err != nil {
			return nil, perr.FromPostgresf(err, "ledger: scan run head")
		}
		if h.RunID, err = uuid.Parse(id); err != nil {
			return nil, perr.DBf("ledger: bad run id %q: %v", id, err)
		}
		if err := json.Unmarshal([]byte(counts), &h.Counts); err != nil {
			return nil, perr.JSONErrf("ledger: counts for run %s: %v", id, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListReviewQueue returns unresolved review verdicts, newest runs first
func (s *pg) ListReviewQueue(ctx context.Context, client string, limit, offset int) ([]domain.ReviewItem, error) {
	const q = `
		SELECT v.run_id::text, v.company_id, v.company_name, v.matched_name, v.confidence, r.finished_at
		FROM run_verdicts v
		JOIN runs r USING (run_id)
		WHERE v.action = 'review' AND v.resolution IS NULL
			AND ($1 = '' OR r.client = $1)
		ORDER BY r.finished_at DESC, v.ord
		LIMIT $2 OFFSET $3`
	rows, err := s.q.Query(ctx, q, client, limit, offset)
	if err != nil {
		return nil, perr.FromPostgresf(err, "ledger: review queue")
	}
	defer rows.Close()

	var out []domain.ReviewItem
	for rows.Next() {
		var it domain.ReviewItem
		var id string
		if err := rows.Scan(&id, &it.CompanyID, &it.CompanyName, &it.MatchedName, &it.Confidence, &it.FinishedAt); err != nil {
			return nil, perr.FromPostgresf(err, "ledger: scan review item")
		}
		if it.RunID, err = uuid.Parse(id); err != nil {
			return nil, perr.DBf("ledger: bad run id %q: %v", id, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ResolveReview stamps a resolution on one unresolved review verdict
func (s *pg) ResolveReview(ctx context.Context, runID uuid.UUID, companyID string, res domain.Resolution, note string) error {
	const q = `
		UPDATE run_verdicts
		SET resolution = $3, resolution_note = $4, resolved_at = now()
		WHERE run_id = $1 AND company_id = $2
			AND action = 'review' AND resolution IS NULL`
	tag, err := s.q.Exec(ctx, q, runID.String(), companyID, string(res), pstrings.SQLNull(note))
	if err != nil {
		return perr.FromPostgresf(err, "ledger: resolve review")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("no unresolved review verdict for run %s company %s", runID, companyID)
	}
	return nil
}
