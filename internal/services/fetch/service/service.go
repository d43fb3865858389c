// Package service runs one fetch: freshness gate, source download, segmentation
// into staged artifacts and atomic promotion
package service

import (
	"context"
	"time"

	"jmnedict/internal/adapters/artifact"
	"jmnedict/internal/core/codec"
	"jmnedict/internal/core/freshness"
	"jmnedict/internal/core/segment"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
	ptime "jmnedict/internal/platform/time"
	"jmnedict/internal/services/fetch/domain"

	"github.com/google/uuid"
)

// Config holds configuration options for the fetch service
type Config struct {
	URL        string
	OutDir     string
	Codec      codec.Codec
	Freshness  time.Duration // <=0 = always refetch
	RunTimeout time.Duration // 0 = none
}

// Service implements domain.RunnerPort
type Service struct {
	Source domain.Source
	Cfg    Config
	Now    func() time.Time
	NewID  func() string
}

// New constructs the fetch service
func New(src domain.Source, cfg Config) *Service {
	if src == nil {
		panic("fetch.Service requires a non nil Source")
	}
	return &Service{Source: src, Cfg: cfg, Now: time.Now, NewID: uuid.NewString}
}

// Layout is where this service writes
func (s *Service) Layout() artifact.Layout {
	return artifact.Layout{Dir: s.Cfg.OutDir, Codec: s.Cfg.Codec}
}

// Run fetches and segments the source unless the entry-stream artifact is fresh
// and force is false. On any failure the staged parts are removed and earlier
// artifacts stay in place
func (s *Service) Run(ctx context.Context, force bool) (res domain.Result, retErr error) {
	res.RunID = s.NewID()
	ctx = logger.WithRun(ctx, res.RunID)
	log := logger.C(ctx)
	start := time.Now()
	layout := s.Layout()
	res.Entries = layout.Entries()

	guard := freshness.New(s.Cfg.Freshness)
	guard.Now = s.Now
	res.Verdict = guard.Check(layout.Entries())
	if res.Verdict == freshness.Fresh && !force {
		res.Skipped = true
		log.Info().Str("artifact", layout.Entries()).Dur("threshold", guard.Threshold).
			Msg("fetch: artifact is fresh, skipping")
		return res, nil
	}

	ctx, cancel := ptime.Budget(ctx, s.Cfg.RunTimeout)
	defer cancel()

	log.Info().Str("url", s.Cfg.URL).Str("out", layout.Dir).Str("codec", layout.Codec.String()).
		Bool("forced", force).Msg("fetch: starting")

	t0 := time.Now()
	src, err := s.Source.Open(ctx, s.Cfg.URL)
	res.FetchMS = ptime.MS(t0)
	if err != nil {
		if _, coded := perr.As(err); coded {
			return res, err
		}
		return res, perr.Wrap(err, perr.ErrorCodeFetch, "fetch: open source")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && retErr == nil {
			log.Warn().Err(cerr).Msg("fetch: closing source")
		}
	}()

	st, err := artifact.Stage(layout)
	if err != nil {
		return res, err
	}
	defer func() {
		if retErr != nil {
			if aerr := st.Abort(); aerr != nil {
				log.Error().Err(aerr).Msg("fetch: removing staged parts")
			}
		}
	}()

	t1 := time.Now()
	seg, err := segment.Run(src, st.Sinks(), s.Now)
	res.SegmentMS = ptime.MS(t1)
	res.Segment = seg
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !perr.IsCode(err, perr.ErrorCodeSegment) {
			return res, perr.Wrap(ctxErr, perr.ErrorCodeFetch, "fetch: cancelled while reading source")
		}
		return res, err
	}
	if err := st.Commit(); err != nil {
		return res, err
	}

	res.ElapsedMS = ptime.MS(start)
	res.FinishedAt = seg.Metadata.TimeUTC
	log.Info().
		Int("entries", seg.EntryCount).
		Int64("bytes", seg.Bytes).
		Int64("fetch_ms", res.FetchMS).
		Int64("segment_ms", res.SegmentMS).
		Int64("elapsed_ms", res.ElapsedMS).
		Msg("fetch: artifacts committed")
	return res, nil
}
