// Package module implements the screen module
package module

import (
	"dncsweep/internal/core/match"
	"dncsweep/internal/core/similarity"
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/services/screen/domain"
	"dncsweep/internal/services/screen/service"
)

// Ports exposed by the screen module
type Ports struct {
	Screener domain.ScreenerPort
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new screen module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("screen"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("screen module: expected WithPorts(screen/domain.Ports)")
	}
	if ports.Roster == nil || ports.Suppression == nil {
		panic("screen module: Ports missing Roster or Suppression")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Client != "" {
		cfg.Client = overrides.Client
	}
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}
	if overrides.MatchThreshold != 0 {
		cfg.MatchThreshold = overrides.MatchThreshold
	}
	if overrides.ReviewThreshold != 0 {
		cfg.ReviewThreshold = overrides.ReviewThreshold
	}
	if overrides.Scorer != "" {
		cfg.Scorer = overrides.Scorer
	}

	// Bad thresholds are a configuration error; fail before any external call
	th, err := match.NewThresholds(cfg.MatchThreshold, cfg.ReviewThreshold)
	if err != nil {
		panic(err)
	}

	screener := service.New(ports.Roster, ports.Suppression, service.Config{
		Client:     cfg.Client,
		Workers:    cfg.Workers,
		PageSize:   cfg.PageSize,
		Thresholds: th,
		Scorer:     similarity.ForName(cfg.Scorer),
	})

	m := &Module{deps: deps}
	m.ports = Ports{Screener: screener}
	return m
}

// Name satisfies module.Module
func (m *Module) Name() string { return "screen" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }


// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
