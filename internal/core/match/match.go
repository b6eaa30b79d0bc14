// Package match classifies roster companies against a suppression index.
// Matching is pure and deterministic: no IO, no clocks, no randomness
package match

import (
	"dncsweep/internal/core/canon"
	"dncsweep/internal/core/similarity"
	perr "dncsweep/internal/platform/errors"
)

// Tier identifies which strategy produced a verdict
type Tier string

// Tiers in priority order
const (
	TierExact  Tier = "exact"
	TierDomain Tier = "domain"
	TierFuzzy  Tier = "fuzzy"
)

// Action is the decision attached to a verdict
type Action string

// Actions
const (
	ActionAutoExclude Action = "auto_exclude"
	ActionReview      Action = "review"
	ActionNoAction    Action = "no_action"
)

// Entry is one suppression list row after canonicalization.
// Entries with an empty CanonName never match
type Entry struct {
	RawName     string
	CanonName   string
	RawDomain   string
	CanonDomain string
}

// NewEntry canonicalizes a raw suppression row
func NewEntry(rawName, rawDomain string) Entry {
	return Entry{
		RawName:     rawName,
		CanonName:   canon.Name(rawName),
		RawDomain:   rawDomain,
		CanonDomain: canon.Domain(rawDomain),
	}
}

// Company is a read-only roster entity under screening
type Company struct {
	ID     string
	Name   string
	Domain string
}

// Verdict records a single match decision
type Verdict struct {
	CompanyID   string
	CompanyName string
	MatchedName string
	Tier        Tier
	Confidence  int
	Action      Action
}

// Thresholds hold the fuzzy decision boundaries
type Thresholds struct {
	Match  int
	Review int
}

// DefaultThresholds mirror the shipped configuration
var DefaultThresholds = Thresholds{Match: 90, Review: 85}

// NewThresholds validates the boundaries. Review above Match would create
// verdicts that are both excluded and queued, so it is rejected outright
func NewThresholds(match, review int) (Thresholds, error) {
	if match < 0 || match > 100 || review < 0 || review > 100 {
		return Thresholds{}, perr.InvalidArgf("thresholds must be within 0..100, got match=%d review=%d", match, review)
	}
	if review > match {
		return Thresholds{}, perr.InvalidArgf("review threshold %d exceeds match threshold %d", review, match)
	}
	return Thresholds{Match: match, Review: review}, nil
}

// Index is the immutable lookup structure built once per run.
// First entry wins on canonical-name and canonical-domain collisions
type Index struct {
	byName   map[string]Entry
	byDomain map[string]Entry
	entries  []Entry // eligible entries in input order, for fuzzy scans
	skipped  int
}

// NewIndex builds an Index from suppression entries in input order
func NewIndex(entries []Entry) *Index {
	ix := &Index{
		byName:   make(map[string]Entry, len(entries)),
		byDomain: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.CanonName == "" {
			ix.skipped++
			continue
		}
		if _, dup := ix.byName[e.CanonName]; !dup {
			ix.byName[e.CanonName] = e
		}
		if e.CanonDomain != "" {
			if _, dup := ix.byDomain[e.CanonDomain]; !dup {
				ix.byDomain[e.CanonDomain] = e
			}
		}
		ix.entries = append(ix.entries, e)
	}
	return ix
}

// Len returns the number of eligible entries
func (ix *Index) Len() int { return len(ix.entries) }

// Skipped returns how many entries were ineligible (empty canonical name)
func (ix *Index) Skipped() int { return ix.skipped }

// Matcher runs the tier strategies in order against an Index
type Matcher struct {
	index  *Index
	scorer similarity.Scorer
	th     Thresholds
	tiers  []strategy
}

type strategy func(company Company, canonName, canonDomain string) (Verdict, bool)

// NewMatcher wires the tier chain. The strategy order is the contract:
// exact, then domain, then fuzzy, first hit wins
func NewMatcher(ix *Index, scorer similarity.Scorer, th Thresholds) *Matcher {
	m := &Matcher{index: ix, scorer: scorer, th: th}
	m.tiers = []strategy{m.exactTier, m.domainTier, m.fuzzyTier}
	return m
}

// Match classifies one company. ok=false means no verdict (no_action)
func (m *Matcher) Match(c Company) (Verdict, bool) {
	canonName := canon.Name(c.Name)
	if canonName == "" {
		return Verdict{}, false
	}
	canonDomain := canon.Domain(c.Domain)

	for _, tier := range m.tiers {
		if v, ok := tier(c, canonName, canonDomain); ok {
			return v, true
		}
	}
	return Verdict{}, false
}

func (m *Matcher) exactTier(c Company, canonName, _ string) (Verdict, bool) {
	e, ok := m.index.byName[canonName]
	if !ok {
		return Verdict{}, false
	}
	return Verdict{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		MatchedName: e.RawName,
		Tier:        TierExact,
		Confidence:  100,
		Action:      ActionAutoExclude,
	}, true
}

func (m *Matcher) domainTier(c Company, _, canonDomain string) (Verdict, bool) {
	if canonDomain == "" {
		return Verdict{}, false
	}
	e, ok := m.index.byDomain[canonDomain]
	if !ok {
		return Verdict{}, false
	}
	return Verdict{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		MatchedName: e.RawName,
		Tier:        TierDomain,
		Confidence:  100,
		Action:      ActionAutoExclude,
	}, true
}

func (m *Matcher) fuzzyTier(c Company, canonName, _ string) (Verdict, bool) {
	best := -1
	var bestEntry Entry
	for _, e := range m.index.entries {
		// strictly greater keeps the earliest entry on score ties
		if score := m.scorer.Score(canonName, e.CanonName); score > best {
			best = score
			bestEntry = e
		}
	}
	if best < m.th.Review {
		return Verdict{}, false
	}

	action := ActionReview
	if best >= m.th.Match {
		action = ActionAutoExclude
	}
	return Verdict{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		MatchedName: bestEntry.RawName,
		Tier:        TierFuzzy,
		Confidence:  best,
		Action:      action,
	}, true
}
