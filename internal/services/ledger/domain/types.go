// Package domain holds ledger types and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"dncsweep/internal/core/match"
)

// Counts is the flattened tally a finished run carries.
// Screen counters come first, apply counters after
type Counts struct {
	Checked            int `json:"checked"`
	Matched            int `json:"matched"`
	TierExact          int `json:"tier_exact"`
	TierDomain         int `json:"tier_domain"`
	TierFuzzy          int `json:"tier_fuzzy"`
	AutoExcluded       int `json:"auto_excluded"`
	Review             int `json:"review"`
	SuppressionLoaded  int `json:"suppression_loaded"`
	SuppressionSkipped int `json:"suppression_skipped"`

	CompaniesUpdated    int `json:"companies_updated"`
	CompaniesAlreadySet int `json:"companies_already_set"`
	CompaniesFailed     int `json:"companies_failed"`
	ContactsUpdated     int `json:"contacts_updated"`
	ContactsAlreadySet  int `json:"contacts_already_set"`
	ContactsFailed      int `json:"contacts_failed"`
}

// UpdateRecord is the persisted form of one attempted record-store update
type UpdateRecord struct {
	TargetID    string `json:"target_id"`
	TargetType  string `json:"target_type"`
	Status      string `json:"status"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// RunSummary is the immutable record of one reconciliation run.
// Finalize stamps FinishedAt exactly once; nothing mutates it after Record
type RunSummary struct {
	RunID      uuid.UUID
	Client     string
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     Counts
	Verdicts   []match.Verdict
	Updates    []UpdateRecord
	Warnings   []string
}

// NewRunSummary starts a summary for the given client
func NewRunSummary(client string) *RunSummary {
	return &RunSummary{
		RunID:     uuid.New(),
		Client:    client,
		StartedAt: time.Now().UTC(),
	}
}

// Finalize stamps FinishedAt if it has not been stamped yet
func (r *RunSummary) Finalize() {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
}

// RunHead is the list-view slice of a run, without verdicts or updates
type RunHead struct {
	RunID      uuid.UUID
	Client     string
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     Counts
}

// Resolution is a human decision on a review verdict
type Resolution string

// Resolutions
const (
	ResolutionExcluded Resolution = "excluded"
	ResolutionCleared  Resolution = "cleared"
)

// Valid reports whether r is a known resolution
func (r Resolution) Valid() bool {
	return r == ResolutionExcluded || r == ResolutionCleared
}

// ReviewItem is one unresolved review verdict awaiting a human decision
type ReviewItem struct {
	RunID       uuid.UUID
	CompanyID   string
	CompanyName string
	MatchedName string
	Confidence  int
	FinishedAt  time.Time
}
