package repo

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/store"
	"jmnedict/internal/services/load/domain"
	"jmnedict/pkg/jmnedict"
)

type tag int64

func (t tag) String() string      { return "DELETE" }
func (t tag) RowsAffected() int64 { return int64(t) }

type countRow struct{ n int64 }

func (r countRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.n
	return nil
}

// recorder is a querier without pipelining; every statement lands in stmts
type recorder struct {
	stmts []store.Stmt
	count int64
	fail  string
}

func (r *recorder) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	r.stmts = append(r.stmts, store.Stmt{SQL: sql, Args: args})
	if r.fail != "" && strings.Contains(sql, r.fail) {
		return tag(0), errors.New("exec failed")
	}
	return tag(7), nil
}

func (r *recorder) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not used")
}

func (r *recorder) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	r.stmts = append(r.stmts, store.Stmt{SQL: sql, Args: args})
	return countRow{n: r.count}
}

// txRecorder runs every transaction on the same recorder and counts them
type txRecorder struct {
	recorder
	txs        int
	rolledBack int
}

func (t *txRecorder) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	t.txs++
	err := fn(&t.recorder)
	if err != nil {
		t.rolledBack++
	}
	return err
}

func sampleEntries() []jmnedict.Entry {
	return []jmnedict.Entry{
		{
			Seq:      5000001,
			Kanji:    []jmnedict.KanjiElement{{Text: "山田"}},
			Readings: []jmnedict.ReadingElement{{Text: "やまだ"}},
			Translations: []jmnedict.Translation{{
				NameTypes: []string{"family or surname"},
				Details:   []jmnedict.TranslationDetail{{Lang: "eng", Text: "Yamada"}},
			}},
		},
		{
			Seq:          5000002,
			Readings:     []jmnedict.ReadingElement{{Text: "たなか"}, {Text: "タナカ", Restrictions: []string{"田中"}}},
			Translations: []jmnedict.Translation{{NameTypes: []string{"family or surname"}}},
		},
	}
}

func TestUpsertEntriesStatementOrder(t *testing.T) {
	rec := &recorder{}
	if err := NewPG().Bind(rec).UpsertEntries(context.Background(), "run", sampleEntries()); err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, s := range rec.stmts {
		f := strings.Fields(s.SQL)
		kinds = append(kinds, f[0]+" "+f[2])
	}
	want := []string{
		"INSERT jmnedict_entries", "INSERT jmnedict_entries",
		"DELETE jmnedict_kanji", "DELETE jmnedict_readings", "DELETE jmnedict_translations",
		"INSERT jmnedict_kanji", "INSERT jmnedict_readings", "INSERT jmnedict_translations",
		"INSERT jmnedict_readings", "INSERT jmnedict_readings", "INSERT jmnedict_translations",
	}
	if !slices.Equal(kinds, want) {
		t.Fatalf("statements =\n%v\nwant\n%v", kinds, want)
	}
	if seqs := rec.stmts[2].Args[0].([]int32); !slices.Equal(seqs, []int32{5000001, 5000002}) {
		t.Fatalf("delete args = %v", seqs)
	}
	if hw := rec.stmts[1].Args[1]; hw != "たなか" {
		t.Fatalf("kana-only headword = %v", hw)
	}
	// nil slices go out as empty arrays
	if info := rec.stmts[5].Args[3].([]string); info == nil {
		t.Fatal("kanji info sent as NULL")
	}
	tr := rec.stmts[7].Args
	if langs := tr[4].([]string); !slices.Equal(langs, []string{"eng"}) {
		t.Fatalf("translation langs = %v", langs)
	}
}

func TestUpsertEntriesWrapsFailures(t *testing.T) {
	rec := &recorder{fail: "jmnedict_readings"}
	err := NewPG().Bind(rec).UpsertEntries(context.Background(), "run", sampleEntries())
	if !perr.IsCode(err, perr.ErrorCodeDB) || !strings.Contains(err.Error(), "5000001") {
		t.Fatalf("err = %v", err)
	}
	if err := NewPG().Bind(rec).UpsertEntries(context.Background(), "run", nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestPGSinkFinish(t *testing.T) {
	db := &txRecorder{recorder: recorder{count: 2}}
	sink := NewPGSink(db, nil)

	n, err := sink.Finish(context.Background(), "run", 2)
	if err != nil || n != 2 {
		t.Fatalf("finish = %d, %v", n, err)
	}
	last := db.stmts[len(db.stmts)-1].SQL
	if !strings.HasPrefix(last, "DELETE FROM jmnedict_entries WHERE run_id <>") {
		t.Fatalf("last statement = %q", last)
	}

	db = &txRecorder{recorder: recorder{count: 1}}
	n, err = NewPGSink(db, nil).Finish(context.Background(), "run", 2)
	if !perr.IsCode(err, perr.ErrorCodeDB) || n != 1 || db.rolledBack != 1 {
		t.Fatalf("short finish = %d, %v, rollbacks %d", n, err, db.rolledBack)
	}
	for _, s := range db.stmts {
		if strings.HasPrefix(s.SQL, "DELETE") {
			t.Fatal("pruned after a count mismatch")
		}
	}
}

func TestPGSinkPrepareAndWriteUseOneTxEach(t *testing.T) {
	db := &txRecorder{}
	sink := NewPGSink(db, NewPG())
	if sink.Target() != domain.TargetPG {
		t.Fatalf("target = %s", sink.Target())
	}
	if err := sink.Prepare(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(db.stmts) != len(pgSchema) {
		t.Fatalf("schema statements = %d", len(db.stmts))
	}
	if err := sink.Write(context.Background(), "run", sampleEntries()); err != nil {
		t.Fatal(err)
	}
	if db.txs != 2 {
		t.Fatalf("transactions = %d", db.txs)
	}
}

type fakeCH struct {
	table   string
	columns []string
	rows    [][]any
	execs   []string
	count   uint64
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.columns = table, columns
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return &countRows{n: f.count}, nil
}

func (f *fakeCH) Close() error { return nil }

type countRows struct {
	n    uint64
	done bool
}

func (r *countRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}
func (r *countRows) Scan(dest ...any) error { *(dest[0].(*uint64)) = r.n; return nil }
func (r *countRows) Err() error             { return nil }
func (r *countRows) Close()                 {}
func (r *countRows) Columns() []string      { return []string{"count()"} }

func TestCHSinkWrite(t *testing.T) {
	ch := &fakeCH{}
	sink := NewCHSink(ch)
	at := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	sink.Now = func() time.Time { return at }

	if err := sink.Prepare(context.Background()); err != nil || !strings.Contains(ch.execs[0], "ReplacingMergeTree") {
		t.Fatalf("prepare = %v %v", err, ch.execs)
	}
	if err := sink.Write(context.Background(), "run", sampleEntries()); err != nil {
		t.Fatal(err)
	}
	if ch.table != CHTable || len(ch.rows) != 2 || len(ch.rows[0]) != len(chColumns) {
		t.Fatalf("insert %s %d rows", ch.table, len(ch.rows))
	}
	second := ch.rows[1]
	if second[0] != uint32(5000002) || second[2] != "たなか" || len(second[3].([]string)) != 0 {
		t.Fatalf("row = %v", second)
	}
	if g := second[7].([]string); g == nil || len(g) != 0 {
		t.Fatalf("glosses = %#v", g)
	}
	if !second[8].(time.Time).Equal(at) {
		t.Fatalf("loaded_at = %v", second[8])
	}
}

func TestCHSinkFinish(t *testing.T) {
	ch := &fakeCH{count: 3}
	if n, err := NewCHSink(ch).Finish(context.Background(), "run", 3); err != nil || n != 3 {
		t.Fatalf("finish = %d %v", n, err)
	}
	if len(ch.execs) != 1 || !strings.HasPrefix(ch.execs[0], "ALTER TABLE jmnedict_entries DELETE") {
		t.Fatalf("execs = %v", ch.execs)
	}

	ch = &fakeCH{count: 2}
	if _, err := NewCHSink(ch).Finish(context.Background(), "run", 3); !perr.IsCode(err, perr.ErrorCodeDB) || len(ch.execs) != 0 {
		t.Fatalf("short finish err = %v execs = %v", err, ch.execs)
	}
}
