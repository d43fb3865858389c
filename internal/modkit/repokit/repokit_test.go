package repokit

import (
	"context"
	"errors"
	"testing"

	"jmnedict/internal/platform/store"
	kit "jmnedict/internal/platform/testkit"
)

type fakeQ struct{ store.RowQuerier }

type fakeTx struct {
	fakeQ
	calls int
}

func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.calls++
	return fn(&fakeQ{})
}

func TestBindFunc(t *testing.T) {
	b := BindFunc[string](func(Queryer) string { return "ok" })
	if got := b.Bind(nil); got != "ok" {
		t.Fatalf("Bind = %q", got)
	}
}

func TestMustBindPanicsOnNil(t *testing.T) {
	b := BindFunc[int](func(Queryer) int { return 42 })
	kit.MustPanic(t, func() { _ = MustBind[int](b, nil) })
	if got := MustBind[int](b, &fakeQ{}); got != 42 {
		t.Fatalf("MustBind = %d", got)
	}
}

func TestInTxBindsTheTransaction(t *testing.T) {
	db := &fakeTx{}
	var bound Queryer
	b := BindFunc[Queryer](func(q Queryer) Queryer { return q })
	want := errors.New("rollback")
	err := InTx(context.Background(), db, b, func(q Queryer) error {
		bound = q
		return want
	})
	if !errors.Is(err, want) || db.calls != 1 || bound == nil {
		t.Fatalf("err=%v calls=%d bound=%v", err, db.calls, bound)
	}
}

type guard struct {
	err         error
	hadDeadline bool
}

func (g *guard) Guard(ctx context.Context) error {
	_, g.hadDeadline = ctx.Deadline()
	return g.err
}

func TestMustGuard(t *testing.T) {
	g := &guard{}
	kit.MustNotPanic(t, func() { MustGuard(context.Background(), g) })
	if !g.hadDeadline {
		t.Fatal("guard ran without a deadline")
	}
	kit.MustPanic(t, func() { MustGuard(context.Background(), &guard{err: errors.New("pg down")}) })
}
