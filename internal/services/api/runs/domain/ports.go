// Package domain holds the runs API contracts
package domain

import (
	ledgerdom "dncsweep/internal/services/ledger/domain"
)

// Ports are dependencies injected into the runs API module
type Ports struct {
	Ledger ledgerdom.QueryPort // required
}
