// @title         jmnedict API
// @version       0.1.0
// @description   Read only endpoints over the fetched JMnedict artifacts

package main

// regenerate internal/services/api/docs after changing route annotations; serve it with -tags swag
//go:generate swag init --v3.1 -g main.go -d ./,../../internal/services/api,../../internal/core/version,../../pkg/jmnedict -o ../../internal/services/api/docs --outputTypes go

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jmnedict/internal/modkit/httpkit"
	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"
	phttp "jmnedict/internal/platform/net/http"
	"jmnedict/internal/platform/net/middleware"
	"jmnedict/internal/platform/store"

	"jmnedict/internal/services/api"
	fetchmod "jmnedict/internal/services/fetch/module"

	"github.com/go-chi/chi/v5"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	// the databases are optional for the read API; /meta/ready reports them when set
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGFromConfig(pgCfg, pgCfg.MayString("DBURL", "") != ""),
			CH: store.CHFromConfig(chCfg, chCfg.MayString("DBURL", "") != "", "api"),
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/healthz"))
	})

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			ArtifactDir:    fetchmod.FromConfig(root).OutDir,
			Store:          st,
			Stack:          httpkit.StackFromConfig(apiCfg),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
