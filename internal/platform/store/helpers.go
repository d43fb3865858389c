package store

import (
	"context"
	"fmt"

	perr "jmnedict/internal/platform/errors"
)

// ExecOne runs a write and requires exactly one affected row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	t, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := t.RowsAffected(); n != 1 {
		return fmt.Errorf("expected exactly one row affected, got %d", n)
	}
	return nil
}

// Scalar scans the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	err := q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// Many maps every row through scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	var out []T
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rs.Err()
}

// Pipeline sends stmts in one round trip when q supports it and one by one
// otherwise. Either way the first failure stops the rest
func Pipeline(ctx context.Context, q RowQuerier, stmts []Stmt) error {
	if p, ok := q.(Pipeliner); ok {
		return p.SendBatch(ctx, stmts)
	}
	for i, s := range stmts {
		if _, err := q.Exec(ctx, s.SQL, s.Args...); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "statement %d", i)
		}
	}
	return nil
}
