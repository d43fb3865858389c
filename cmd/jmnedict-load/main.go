package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"jmnedict/internal/modkit"
	"jmnedict/internal/modkit/repokit"
	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"
	"jmnedict/internal/platform/store"

	loaddom "jmnedict/internal/services/load/domain"
	loadmod "jmnedict/internal/services/load/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	opts := loadmod.FromConfig(root)
	var (
		fTarget = flag.String("target", string(opts.Target), "sink to load into: pg | ch")
		fDir    = flag.String("dir", opts.ArtifactDir, "artifact directory written by jmnedict-fetch")
		fBatch  = flag.Int("batch", opts.WriteBatch, "entries per write")
	)
	flag.Parse()

	switch loaddom.Target(*fTarget) {
	case loaddom.TargetPG, loaddom.TargetCH:
		opts.Target = loaddom.Target(*fTarget)
	default:
		l.Fatal().Str("target", *fTarget).Msg("invalid -target, want pg or ch")
	}
	if *fBatch <= 0 {
		l.Fatal().Int("batch", *fBatch).Msg("invalid -batch, want a positive number")
	}
	opts.ArtifactDir, opts.WriteBatch = *fDir, *fBatch

	// only the target backend is opened
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGFromConfig(pgCfg, opts.Target == loaddom.TargetPG),
		CH: store.CHFromConfig(chCfg, opts.Target == loaddom.TargetCH, "load"),
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := loadmod.NewWithOptions(modkit.Deps{Log: l, Cfg: root, PG: st.PG, CH: st.CH}, opts)
	res, err := m.Ports().(loadmod.Ports).Runner.Run(ctx)
	if err != nil {
		// Fatal skips deferred calls
		_ = st.Close(context.Background())
		l.Fatal().Err(err).Str("target", string(opts.Target)).Msg("load failed")
	}
	l.Info().
		Str("run_id", res.RunID).
		Str("target", string(res.Target)).
		Int("stored", res.Stored).
		Int("batches", res.Batches).
		Int64("elapsed_ms", res.ElapsedMS).
		Msg("load done")
}
