// Package repo writes decoded entries to the relational and columnar stores
package repo

import (
	"context"

	"jmnedict/internal/modkit/repokit"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/store"
	"jmnedict/internal/services/load/domain"
	"jmnedict/pkg/jmnedict"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// pgSchema is idempotent; children cascade with their entry
var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS jmnedict_entries (
		ent_seq   integer PRIMARY KEY,
		headword  text NOT NULL,
		run_id    uuid NOT NULL,
		loaded_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_jmnedict_entries_run ON jmnedict_entries (run_id)`,
	`CREATE TABLE IF NOT EXISTS jmnedict_kanji (
		ent_seq  integer NOT NULL REFERENCES jmnedict_entries (ent_seq) ON DELETE CASCADE,
		ord      smallint NOT NULL,
		keb      text NOT NULL,
		info     text[] NOT NULL DEFAULT '{}',
		priority text[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (ent_seq, ord)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_jmnedict_kanji_keb ON jmnedict_kanji (keb)`,
	`CREATE TABLE IF NOT EXISTS jmnedict_readings (
		ent_seq      integer NOT NULL REFERENCES jmnedict_entries (ent_seq) ON DELETE CASCADE,
		ord          smallint NOT NULL,
		reb          text NOT NULL,
		restrictions text[] NOT NULL DEFAULT '{}',
		info         text[] NOT NULL DEFAULT '{}',
		priority     text[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (ent_seq, ord)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_jmnedict_readings_reb ON jmnedict_readings (reb)`,
	`CREATE TABLE IF NOT EXISTS jmnedict_translations (
		ent_seq    integer NOT NULL REFERENCES jmnedict_entries (ent_seq) ON DELETE CASCADE,
		ord        smallint NOT NULL,
		name_types text[] NOT NULL DEFAULT '{}',
		xrefs      text[] NOT NULL DEFAULT '{}',
		langs      text[] NOT NULL DEFAULT '{}',
		texts      text[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (ent_seq, ord)
	)`,
}

// EnsureSchema creates the tables when missing
func (r *queries) EnsureSchema(ctx context.Context) error {
	stmts := make([]store.Stmt, 0, len(pgSchema))
	for _, s := range pgSchema {
		stmts = append(stmts, store.Stmt{SQL: s})
	}
	return store.Pipeline(ctx, r.q, stmts)
}

const (
	upsertEntrySQL = `
		INSERT INTO jmnedict_entries (ent_seq, headword, run_id, loaded_at)
		VALUES ($1, $2, $3::uuid, now())
		ON CONFLICT (ent_seq) DO UPDATE
		SET headword = EXCLUDED.headword, run_id = EXCLUDED.run_id, loaded_at = EXCLUDED.loaded_at`
	insertKanjiSQL = `
		INSERT INTO jmnedict_kanji (ent_seq, ord, keb, info, priority)
		VALUES ($1, $2, $3, $4, $5)`
	insertReadingSQL = `
		INSERT INTO jmnedict_readings (ent_seq, ord, reb, restrictions, info, priority)
		VALUES ($1, $2, $3, $4, $5, $6)`
	insertTranslationSQL = `
		INSERT INTO jmnedict_translations (ent_seq, ord, name_types, xrefs, langs, texts)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// UpsertEntries replaces the batch's entries and their children. Child rows of
// an existing entry are deleted first so a shrinking entry leaves nothing behind
func (r *queries) UpsertEntries(ctx context.Context, runID string, batch []jmnedict.Entry) error {
	if len(batch) == 0 {
		return nil
	}
	seqs := make([]int32, 0, len(batch))
	stmts := make([]store.Stmt, 0, len(batch)*4+3)
	for _, e := range batch {
		seqs = append(seqs, int32(e.Seq))
		stmts = append(stmts, store.Stmt{SQL: upsertEntrySQL, Args: []any{e.Seq, e.Headword(), runID}})
	}
	for _, table := range []string{"jmnedict_kanji", "jmnedict_readings", "jmnedict_translations"} {
		stmts = append(stmts, store.Stmt{SQL: "DELETE FROM " + table + " WHERE ent_seq = ANY($1)", Args: []any{seqs}})
	}
	for _, e := range batch {
		stmts = append(stmts, childStmts(e)...)
	}
	if err := store.Pipeline(ctx, r.q, stmts); err != nil {
		return perr.FromPostgresf(err, "load: upsert batch from ent_seq %d", batch[0].Seq)
	}
	return nil
}

func childStmts(e jmnedict.Entry) []store.Stmt {
	var out []store.Stmt
	for i, k := range e.Kanji {
		out = append(out, store.Stmt{SQL: insertKanjiSQL, Args: []any{e.Seq, i, k.Text, nonNil(k.Info), nonNil(k.Priority)}})
	}
	for i, rd := range e.Readings {
		out = append(out, store.Stmt{SQL: insertReadingSQL, Args: []any{
			e.Seq, i, rd.Text, nonNil(rd.Restrictions), nonNil(rd.Info), nonNil(rd.Priority),
		}})
	}
	for i, t := range e.Translations {
		langs := make([]string, 0, len(t.Details))
		texts := make([]string, 0, len(t.Details))
		for _, d := range t.Details {
			langs = append(langs, d.Lang)
			texts = append(texts, d.Text)
		}
		out = append(out, store.Stmt{SQL: insertTranslationSQL, Args: []any{
			e.Seq, i, nonNil(t.NameTypes), nonNil(t.XRefs), langs, texts,
		}})
	}
	return out
}

// nonNil keeps NOT NULL array columns happy; pgx sends a nil slice as NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CountRun counts the entries written by runID
func (r *queries) CountRun(ctx context.Context, runID string) (int, error) {
	n, err := store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM jmnedict_entries WHERE run_id = $1::uuid`, runID)
	if err != nil {
		return 0, perr.FromPostgres(err, "load: count run")
	}
	return int(n), nil
}

// PruneOtherRuns deletes entries left by earlier runs
func (r *queries) PruneOtherRuns(ctx context.Context, runID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM jmnedict_entries WHERE run_id <> $1::uuid`, runID)
	if err != nil {
		return 0, perr.FromPostgres(err, "load: prune earlier runs")
	}
	return tag.RowsAffected(), nil
}
