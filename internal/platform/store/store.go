// Package store opens the optional sinks the loader writes entries to: Postgres
// behind a small sql seam and ClickHouse behind a columnar insert seam
package store

import (
	"context"
	"errors"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
)

// Store is the facade for the optional backends. A backend left disabled in
// Config stays nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Row is the scan contract of a single row
type Row interface {
	Scan(dest ...any) error
}

// Rows is the iteration contract of a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Stmt is one queued statement of a pipelined batch
type Stmt struct {
	SQL  string
	Args []any
}

// Pipeliner sends many statements in one round trip. The querier handed to a Tx
// callback implements it when the driver supports pipelining
type Pipeliner interface {
	SendBatch(ctx context.Context, stmts []Stmt) error
}

// TxRunner runs fn inside a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam: batched inserts, DDL and reads
type Clickhouse interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates the Store during Open
type Option func(*Store) error

// WithLogger sets the logger handed to the backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open connects the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Nop()}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if cfg.PG.Enabled {
		pgc, err := openPG(ctx, cfg, s.Log)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store: postgres")
		}
		s.PG = pgc
	}
	if cfg.CH.Enabled {
		chc, err := openCH(ctx, cfg)
		if err != nil {
			_ = s.Close(ctx)
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store: clickhouse")
		}
		s.CH = chc
	}
	return s, nil
}

// Guard pings every configured backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "ch": s.CH} {
		p, ok := b.(Pinger)
		if !ok || p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, perr.Wrap(err, perr.ErrorCodeUnavailable, name))
		}
	}
	return errors.Join(errs...)
}

// Close closes every opened backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
