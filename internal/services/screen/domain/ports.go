package domain

import (
	"context"

	"dncsweep/internal/core/match"
)

// ScreenerPort runs one full screening pass over the roster
type ScreenerPort interface {
	Screen(ctx context.Context) (*Report, error)
}

// RosterPort pages the tenant's company roster.
// next == "" means the final page was returned
type RosterPort interface {
	ListCompanies(ctx context.Context, after string, limit int) (companies []match.Company, next string, err error)
}

// SuppressionPort loads the client's suppression entries plus load warnings
type SuppressionPort interface {
	Load(ctx context.Context, client string) (entries []match.Entry, warnings []string, err error)
}

// Ports are dependencies injected into the screen module
type Ports struct {
	Roster      RosterPort      // required
	Suppression SuppressionPort // required
}
