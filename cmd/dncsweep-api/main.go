package main

import (
	"context"

	"dncsweep/internal/platform/config"
	"dncsweep/internal/platform/logger"
	phttp "dncsweep/internal/platform/net/http"
	"dncsweep/internal/platform/store"

	"dncsweep/internal/services/api"
	ledgerrepo "dncsweep/internal/services/ledger/repo"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_")
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.FromConf(root, "dncsweep-api"),
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := st.Guard(context.Background()); err != nil {
		l.Panic().Err(err).Msg("store not ready")
	}

	if err := ledgerrepo.EnsureSchema(context.Background(), st.PG); err != nil {
		l.Panic().Err(err).Msg("ledger schema failed")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config: root,
			Store:  st,
			Logger: l,
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
