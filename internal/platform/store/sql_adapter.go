package store

import (
	"context"
	"errors"
	"time"

	"jmnedict/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxExec is what *pgxpool.Pool and pgx.Tx have in common
type pgxExec interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// querier implements RowQuerier and Pipeliner over a pool or a tx, reporting
// each statement to the tracer
type querier struct {
	x      pgxExec
	tracer pg.QueryTracer
	slowMs int
}

func (q querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.x.Exec(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (q querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.x.Query(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (q querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := q.x.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(err error) { q.emit(ctx, sql, args, start, err) }}
}

// SendBatch pipelines stmts and returns the first failure
func (q querier) SendBatch(ctx context.Context, stmts []Stmt) error {
	if len(stmts) == 0 {
		return nil
	}
	start := time.Now()
	b := &pgx.Batch{}
	for _, s := range stmts {
		b.Queue(s.SQL, s.Args...)
	}
	br := q.x.SendBatch(ctx, b)
	var err error
	for range stmts {
		if _, err = br.Exec(); err != nil {
			break
		}
	}
	err = errors.Join(err, br.Close())
	q.emit(ctx, stmts[0].SQL, len(stmts), start, err)
	return err
}

func (q querier) emit(ctx context.Context, sql string, args any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      q.slowMs >= 0 && elapsedUS >= int64(q.slowMs)*1000,
	})
}

// pgAdapter is the pool level TxRunner
type pgAdapter struct {
	querier
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{querier: querier{x: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs}, p: p}
}

// Ping runs SELECT 1 through the adapter so it shows up in the SQL trace
func (a *pgAdapter) Ping(ctx context.Context) error {
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx begins a transaction, hands fn a querier bound to it and commits on success
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(querier{x: tx, tracer: a.tracer, slowMs: a.slowMs}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
