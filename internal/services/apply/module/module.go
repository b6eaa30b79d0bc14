// Package module implements the apply module
package module

import (
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/services/apply/domain"
	"dncsweep/internal/services/apply/service"
)

// Ports exposed by the apply module
type Ports struct {
	Applier domain.ApplierPort
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new apply module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("apply"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("apply module: expected WithPorts(apply/domain.Ports)")
	}
	if ports.Store == nil {
		panic("apply module: Ports missing Store")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.BatchSize != 0 {
		cfg.BatchSize = overrides.BatchSize
	}
	if overrides.CompanyStatus != "" {
		cfg.CompanyStatus = overrides.CompanyStatus
	}
	if overrides.ContactStatus != "" {
		cfg.ContactStatus = overrides.ContactStatus
	}

	applier := service.New(ports.Store, service.Config{
		Workers:       cfg.Workers,
		BatchSize:     cfg.BatchSize,
		CompanyStatus: cfg.CompanyStatus,
		ContactStatus: cfg.ContactStatus,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Applier: applier}
	return m
}

// Name satisfies module.Module
func (m *Module) Name() string { return "apply" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }


// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
