// Package domain holds screen service types and ports
package domain

import (
	"dncsweep/internal/core/match"
)

// Counts aggregates what a screening pass saw and decided
type Counts struct {
	Checked int `json:"checked"`
	Matched int `json:"matched"`

	TierExact  int `json:"tier_exact"`
	TierDomain int `json:"tier_domain"`
	TierFuzzy  int `json:"tier_fuzzy"`

	AutoExcluded int `json:"auto_excluded"`
	Review       int `json:"review"`

	SuppressionLoaded  int `json:"suppression_loaded"`
	SuppressionSkipped int `json:"suppression_skipped"`
}

// Report is the outcome of a screening pass. Verdicts are in roster input
// order so identical inputs produce identical reports
type Report struct {
	Client   string
	Verdicts []match.Verdict
	Counts   Counts
	Warnings []string
}

// Tally folds one verdict into the counts
func (c *Counts) Tally(v match.Verdict) {
	c.Matched++
	switch v.Tier {
	case match.TierExact:
		c.TierExact++
	case match.TierDomain:
		c.TierDomain++
	case match.TierFuzzy:
		c.TierFuzzy++
	}
	switch v.Action {
	case match.ActionAutoExclude:
		c.AutoExcluded++
	case match.ActionReview:
		c.Review++
	}
}
