// Package module implements the ledger module
package module

import (
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/services/ledger/domain"
	"dncsweep/internal/services/ledger/repo"
	"dncsweep/internal/services/ledger/service"
)

// Ports exposed by the ledger module
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
	Audit    domain.AuditPort
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new ledger module
func New(deps modkit.Deps, overrides Options) *Module {
	if deps.PG == nil {
		panic("ledger module: postgres seam is required")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.AuditDir != "" {
		cfg.AuditDir = overrides.AuditDir
	}

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		AuditDir: cfg.AuditDir,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Recorder: svc, Query: svc, Audit: svc}
	return m
}

// Name satisfies module.Module
func (m *Module) Name() string { return "ledger" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }


// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
