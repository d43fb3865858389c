// Package repokit binds repositories to a querier so the same repo code runs on
// the pool or inside a transaction
package repokit

import (
	"context"
	"fmt"
	"time"

	"jmnedict/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier
	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner
)

// Binder is a tiny factory that binds a domain repo to a specific Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind panics on a nil q, then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// InTx runs fn with a repo bound to one transaction of db
func InTx[T any](ctx context.Context, db TxRunner, b Binder[T], fn func(repo T) error) error {
	return db.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}

type guarder interface {
	Guard(context.Context) error
}

// MustGuard pings every configured backend and panics on failure. Without a
// deadline on ctx it waits at most five seconds
func MustGuard(ctx context.Context, st guarder) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
