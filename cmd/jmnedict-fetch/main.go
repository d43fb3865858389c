package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"jmnedict/internal/core/codec"
	"jmnedict/internal/modkit"
	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"

	fetchdom "jmnedict/internal/services/fetch/domain"
	fetchmod "jmnedict/internal/services/fetch/module"
)

func main() {
	root := config.New()
	l := logger.Get()

	// flags override CORE_FETCH_*
	opts := fetchmod.FromConfig(root)
	var (
		fURL       = flag.String("url", opts.URL, "source URL (http, https, ftp or file)")
		fOut       = flag.String("out", opts.OutDir, "artifact output directory")
		fCodec     = flag.String("codec", opts.Codec.String(), "entry-stream compression: zstd | gzip")
		fFreshness = flag.Duration("freshness", opts.Freshness, "skip the download when the artifact is younger than this (0 = always download)")
		fForce     = flag.Bool("force", false, "download even when the artifact is fresh")
	)
	flag.Parse()

	c, err := codec.Parse(*fCodec)
	if err != nil {
		l.Fatal().Err(err).Str("codec", *fCodec).Msg("invalid -codec")
	}
	opts.URL, opts.OutDir, opts.Codec, opts.Freshness = *fURL, *fOut, c, *fFreshness

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := fetchmod.NewWithOptions(modkit.Deps{Log: l, Cfg: root}, opts)
	runner := m.Ports().(fetchmod.Ports).Runner

	res, err := runner.Run(ctx, *fForce)
	if err != nil {
		l.Fatal().Err(err).Str("url", opts.URL).Msg("fetch failed")
	}
	report(l, res)
}

func report(l *logger.Logger, res fetchdom.Result) {
	if res.Skipped {
		l.Info().
			Str("run_id", res.RunID).
			Str("verdict", res.Verdict.String()).
			Str("entries", res.Entries).
			Msg("fetch skipped, artifacts are fresh")
		return
	}
	l.Info().
		Str("run_id", res.RunID).
		Str("entries", res.Entries).
		Int("entry_count", res.Segment.EntryCount).
		Int64("bytes", res.Segment.Bytes).
		Int64("fetch_ms", res.FetchMS).
		Int64("segment_ms", res.SegmentMS).
		Int64("elapsed_ms", res.ElapsedMS).
		Msg("fetch done")
}
