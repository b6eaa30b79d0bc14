// Package module implements the report module
package module

import (
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/services/report/domain"
	"dncsweep/internal/services/report/service"
)

// Ports exposed by the report module
type Ports struct {
	Sink domain.SinkPort
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new report module
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	m.ports = Ports{Sink: service.New()}
	return m
}

// Name satisfies module.Module
func (m *Module) Name() string { return "report" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }


// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
