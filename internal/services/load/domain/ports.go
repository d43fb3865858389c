package domain

import (
	"context"

	"jmnedict/pkg/jmnedict"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Result, error)
}

// Sink is a store the loader writes batches of entries to. Rows carry the run id
// so a finished run can replace the previous one
type Sink interface {
	Target() Target

	// Prepare creates the tables when missing
	Prepare(ctx context.Context) error

	// Write upserts one batch. The sink owns batch after the call and may retain it
	Write(ctx context.Context, runID string, batch []jmnedict.Entry) error

	// Finish counts the rows of runID and, only when the count equals want,
	// drops rows left by earlier runs. It returns the count
	Finish(ctx context.Context, runID string, want int) (int, error)
}

// StorageRepo is the relational repository bound to a pool or a transaction
type StorageRepo interface {
	EnsureSchema(ctx context.Context) error
	UpsertEntries(ctx context.Context, runID string, batch []jmnedict.Entry) error
	CountRun(ctx context.Context, runID string) (int, error)
	PruneOtherRuns(ctx context.Context, runID string) (int64, error)
}
