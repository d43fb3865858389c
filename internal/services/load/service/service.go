// Package service loads the decoded entry stream into a store and cross checks
// the stored count against the metadata artifact
package service

import (
	"context"
	"io/fs"
	"time"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
	ptime "jmnedict/internal/platform/time"
	"jmnedict/internal/services/load/domain"
	"jmnedict/pkg/jmnedict"

	"github.com/google/uuid"
)

// DefaultWriteBatch is the number of entries per store write
const DefaultWriteBatch = 500

// Config holds configuration options for the load service
type Config struct {
	DecodeBatch int           // entries per decoded fragment; <=0 -> jmnedict.DefaultBatchSize
	WriteBatch  int           // entries per store write; <=0 -> DefaultWriteBatch
	RunTimeout  time.Duration // 0 = none
}

// Service implements domain.RunnerPort
type Service struct {
	Sink      domain.Sink
	Artifacts fs.FS
	Cfg       Config
	Now       func() time.Time
	NewID     func() string
}

// New constructs the load service
func New(sink domain.Sink, artifacts fs.FS, cfg Config) *Service {
	if sink == nil {
		panic("load.Service requires a non nil Sink")
	}
	if artifacts == nil {
		panic("load.Service requires an artifact directory")
	}
	if cfg.DecodeBatch <= 0 {
		cfg.DecodeBatch = jmnedict.DefaultBatchSize
	}
	if cfg.WriteBatch <= 0 {
		cfg.WriteBatch = DefaultWriteBatch
	}
	return &Service{Sink: sink, Artifacts: artifacts, Cfg: cfg, Now: time.Now, NewID: uuid.NewString}
}

// Run streams every entry into the sink. The run fails when the entry stream and
// the metadata disagree or when the sink stores a different number of entries;
// rows of earlier runs are only dropped after both checks pass
func (s *Service) Run(ctx context.Context) (domain.Result, error) {
	res := domain.Result{RunID: s.NewID()}
	res.Target = s.Sink.Target()
	ctx = logger.WithRun(ctx, res.RunID)
	log := logger.C(ctx)
	start := time.Now()

	ctx, cancel := ptime.Budget(ctx, s.Cfg.RunTimeout)
	defer cancel()

	md, err := jmnedict.ReadMetadataFS(s.Artifacts)
	if err != nil {
		return res, err
	}
	res.Expected = md.EntryCount
	log.Info().Str("target", string(res.Target)).Int("expected", md.EntryCount).
		Time("fetched_at", md.TimeUTC).Msg("load: starting")

	if err := s.Sink.Prepare(ctx); err != nil {
		return res, err
	}

	var dbTime time.Duration
	batch := make([]jmnedict.Entry, 0, s.Cfg.WriteBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		t0 := time.Now()
		err := s.Sink.Write(ctx, res.RunID, batch)
		dbTime += time.Since(t0)
		if err != nil {
			return err
		}
		res.Batches++
		// the sink may keep the slice it was given
		batch = make([]jmnedict.Entry, 0, s.Cfg.WriteBatch)
		return nil
	}

	for e, err := range jmnedict.Stream(ctx, s.Artifacts, jmnedict.WithBatchSize(s.Cfg.DecodeBatch)) {
		if err != nil {
			return s.finish(res, start, dbTime), err
		}
		batch = append(batch, e)
		res.Decoded++
		if len(batch) == s.Cfg.WriteBatch {
			if err := flush(); err != nil {
				return s.finish(res, start, dbTime), err
			}
		}
	}
	if err := flush(); err != nil {
		return s.finish(res, start, dbTime), err
	}

	if res.Decoded != res.Expected {
		return s.finish(res, start, dbTime), perr.Newf(perr.ErrorCodeDecode,
			"load: decoded %d entries but metadata says %d", res.Decoded, res.Expected)
	}

	t0 := time.Now()
	res.Stored, err = s.Sink.Finish(ctx, res.RunID, res.Decoded)
	dbTime += time.Since(t0)
	res = s.finish(res, start, dbTime)
	if err != nil {
		return res, err
	}
	if res.Stored != res.Decoded {
		return res, perr.Newf(perr.ErrorCodeDB, "load: %s stored %d entries, decoded %d", res.Target, res.Stored, res.Decoded)
	}

	log.Info().
		Int("entries", res.Stored).
		Int("batches", res.Batches).
		Int64("read_ms", res.ReadMS).
		Int64("db_ms", res.DBMS).
		Int64("elapsed_ms", res.ElapsedMS).
		Msg("load: done")
	return res, nil
}

func (s *Service) finish(res domain.Result, start time.Time, db time.Duration) domain.Result {
	res.ElapsedMS = ptime.MS(start)
	res.DBMS = db.Milliseconds()
	res.ReadMS = max(res.ElapsedMS-res.DBMS, 0)
	res.FinishedAt = s.Now().UTC()
	return res
}
