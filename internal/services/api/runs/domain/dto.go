package domain

import "time"

// RunHeadDTO is the list view of a run
type RunHeadDTO struct {
	RunID      string    `json:"run_id"`
	Client     string    `json:"client"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Checked    int       `json:"checked"`
	Matched    int       `json:"matched"`
	AutoExcl   int       `json:"auto_excluded"`
	Review     int       `json:"review"`
}

// VerdictDTO is one classification inside a run
type VerdictDTO struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	MatchedName string `json:"matched_name"`
	Tier        string `json:"tier"`
	Confidence  int    `json:"confidence"`
	Action      string `json:"action"`
}

// UpdateDTO is one record-store update inside a run
type UpdateDTO struct {
	TargetID    string `json:"target_id"`
	TargetType  string `json:"target_type"`
	Status      string `json:"status"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// RunDTO is the full view of one run
type RunDTO struct {
	RunHeadDTO
	Verdicts []VerdictDTO `json:"verdicts"`
	Updates  []UpdateDTO  `json:"updates"`
	Warnings []string     `json:"warnings,omitempty"`
}

// ReviewItemDTO is one unresolved review verdict
type ReviewItemDTO struct {
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	MatchedName string    `json:"matched_name"`
	Confidence  int       `json:"confidence"`
	FinishedAt  time.Time `json:"finished_at"`
}

// ResolveInput resolves one review verdict
type ResolveInput struct {
	Resolution string `json:"resolution" validate:"required,oneof=excluded cleared"`
	Note       string `json:"note" validate:"max=500"`
}
