package repo

import (
	"context"
	"time"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/store"
	"jmnedict/internal/services/load/domain"
	"jmnedict/pkg/jmnedict"
)

// CHTable is the ClickHouse table entries are inserted into
const CHTable = "jmnedict_entries"

// chColumns is the insert column order
var chColumns = []string{
	"ent_seq", "run_id", "headword", "kanji", "readings", "name_types", "gloss_langs", "glosses", "loaded_at",
}

// ReplacingMergeTree keeps the newest row per ent_seq after merges
const chSchema = `CREATE TABLE IF NOT EXISTS jmnedict_entries (
	ent_seq     UInt32,
	run_id      String,
	headword    String,
	kanji       Array(String),
	readings    Array(String),
	name_types  Array(String),
	gloss_langs Array(String),
	glosses     Array(String),
	loaded_at   DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree(loaded_at)
ORDER BY ent_seq`

// CHSink writes flattened entries with one batch insert per batch
type CHSink struct {
	ch  store.Clickhouse
	Now func() time.Time
}

// NewCHSink returns a sink over ch
func NewCHSink(ch store.Clickhouse) *CHSink {
	if ch == nil {
		panic("load.CHSink requires a non nil Clickhouse")
	}
	return &CHSink{ch: ch, Now: time.Now}
}

// Target implements domain.Sink
func (s *CHSink) Target() domain.Target { return domain.TargetCH }

// Prepare implements domain.Sink
func (s *CHSink) Prepare(ctx context.Context) error {
	if err := s.ch.Exec(ctx, chSchema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "load: create clickhouse table")
	}
	return nil
}

// Write implements domain.Sink
func (s *CHSink) Write(ctx context.Context, runID string, batch []jmnedict.Entry) error {
	if len(batch) == 0 {
		return nil
	}
	now := s.Now().UTC()
	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, chRow(e, runID, now))
	}
	if err := s.ch.Insert(ctx, CHTable, chColumns, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "load: insert batch from ent_seq %d", batch[0].Seq)
	}
	return nil
}

func chRow(e jmnedict.Entry, runID string, now time.Time) []any {
	kanji := make([]string, 0, len(e.Kanji))
	for _, k := range e.Kanji {
		kanji = append(kanji, k.Text)
	}
	readings := make([]string, 0, len(e.Readings))
	for _, r := range e.Readings {
		readings = append(readings, r.Text)
	}
	var langs, glosses []string
	for _, t := range e.Translations {
		for _, d := range t.Details {
			langs = append(langs, d.Lang)
			glosses = append(glosses, d.Text)
		}
	}
	return []any{
		uint32(e.Seq), runID, e.Headword(), kanji, readings, nonNil(e.NameTypes()), nonNil(langs), nonNil(glosses), now,
	}
}

// Finish implements domain.Sink. FINAL folds rows not yet merged so re-loaded
// entries are counted once
func (s *CHSink) Finish(ctx context.Context, runID string, want int) (int, error) {
	rows, err := s.ch.Query(ctx, `SELECT count() FROM jmnedict_entries FINAL WHERE run_id = ?`, runID)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "load: count run")
	}
	var n uint64
	if rows.Next() {
		err = rows.Scan(&n)
	}
	if err == nil {
		err = rows.Err()
	}
	rows.Close()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "load: count run")
	}
	if int(n) != want {
		return int(n), perr.Newf(perr.ErrorCodeDB, "load: stored %d entries for run, want %d", n, want)
	}
	if err := s.ch.Exec(ctx, `ALTER TABLE jmnedict_entries DELETE WHERE run_id != ?`, runID); err != nil {
		return int(n), perr.Wrap(err, perr.ErrorCodeDB, "load: prune earlier runs")
	}
	return int(n), nil
}
