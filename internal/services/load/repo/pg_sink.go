package repo

import (
	"context"

	"jmnedict/internal/modkit/repokit"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
	"jmnedict/internal/services/load/domain"
	"jmnedict/pkg/jmnedict"
)

// PGSink writes each batch in its own transaction
type PGSink struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
}

// NewPGSink binds the relational repo to db
func NewPGSink(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo]) *PGSink {
	if db == nil {
		panic("load.PGSink requires a non nil TxRunner")
	}
	if binder == nil {
		binder = NewPG()
	}
	return &PGSink{db: db, binder: binder}
}

// Target implements domain.Sink
func (s *PGSink) Target() domain.Target { return domain.TargetPG }

// Prepare implements domain.Sink
func (s *PGSink) Prepare(ctx context.Context) error {
	return repokit.InTx(ctx, s.db, s.binder, func(r domain.StorageRepo) error {
		return r.EnsureSchema(ctx)
	})
}

// Write implements domain.Sink
func (s *PGSink) Write(ctx context.Context, runID string, batch []jmnedict.Entry) error {
	return repokit.InTx(ctx, s.db, s.binder, func(r domain.StorageRepo) error {
		return r.UpsertEntries(ctx, runID, batch)
	})
}

// Finish implements domain.Sink. Count and prune share one transaction
func (s *PGSink) Finish(ctx context.Context, runID string, want int) (int, error) {
	var got int
	err := repokit.InTx(ctx, s.db, s.binder, func(r domain.StorageRepo) error {
		n, err := r.CountRun(ctx, runID)
		if err != nil {
			return err
		}
		got = n
		if n != want {
			return perr.Newf(perr.ErrorCodeDB, "load: stored %d entries for run, want %d", n, want)
		}
		pruned, err := r.PruneOtherRuns(ctx, runID)
		if err != nil {
			return err
		}
		logger.C(ctx).Info().Int64("pruned", pruned).Msg("load: earlier runs pruned")
		return nil
	})
	return got, err
}
