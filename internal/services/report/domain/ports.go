// Package domain holds the reporting sink contract
package domain

import (
	"context"

	ledger "dncsweep/internal/services/ledger/domain"
)

// SinkPort consumes a finalized run summary plus an optional attachment path.
// Rendering and delivery are out of scope; implementations decide what
// "send" means (the shipped one logs)
type SinkPort interface {
	Send(ctx context.Context, run *ledger.RunSummary, attachment string) error
}

// Ports are dependencies injected into the report module
type Ports struct{}
