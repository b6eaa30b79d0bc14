// Package module implements the runs API module
package module

import (
	"net/http"

	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/services/api/runs/domain"
	runshttp "dncsweep/internal/services/api/runs/http"
	"dncsweep/internal/services/api/runs/service"
)

// Ports exposed by the runs API module
type Ports struct{}

// Module implements module.Module
type Module struct {
	deps   modkit.Deps
	svc    *service.Service
	prefix string
	mw     []func(http.Handler) http.Handler
}

// New constructs a new runs API module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("runs"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("runs module: expected WithPorts(runs/domain.Ports)")
	}
	if ports.Ledger == nil {
		panic("runs module: Ports missing Ledger")
	}

	return &Module{
		deps:   deps,
		svc:    service.New(ports.Ledger),
		prefix: b.Prefix,
		mw:     b.Mw,
	}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "runs" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return Ports{} }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix == "" {
		runshttp.Register(r, m.svc)
		return
	}
	httpkit.MountUnder(r, m.prefix, m.mw, func(sub httpkit.Router) {
		runshttp.Register(sub, m.svc)
	})
}
