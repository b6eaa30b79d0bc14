// Package api provides the HTTP API over the run ledger
package api

import (
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/httpkit"
	"dncsweep/internal/modkit/module"
	"dncsweep/internal/platform/config"
	"dncsweep/internal/platform/logger"
	phttp "dncsweep/internal/platform/net/http"
	"dncsweep/internal/platform/store"

	runsdom "dncsweep/internal/services/api/runs/domain"
	runsmod "dncsweep/internal/services/api/runs/module"
	ledgermod "dncsweep/internal/services/ledger/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// the ledger owns persistence; the runs module reads through its Query port
	ledger := ledgermod.New(deps, ledgermod.Options{})
	query := module.MustPortsOf[ledgermod.Ports](ledger).Query

	runs := runsmod.New(
		deps,
		modkit.WithPorts(runsdom.Ports{Ledger: query}),
	)

	mods := []module.Module{
		ledger,
		runs,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
