package segment

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"jmnedict/internal/core/metadata"
	perr "jmnedict/internal/platform/errors"
	kit "jmnedict/internal/platform/testkit"
)

type sinks struct {
	prologue, schema, entries, meta bytes.Buffer
}

func (s *sinks) Sinks() Sinks {
	return Sinks{Prologue: &s.prologue, Schema: &s.schema, Entries: &s.entries, Metadata: &s.meta}
}

func lines(b bytes.Buffer) []string {
	if b.Len() == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 16, 1, 2, 3, 0, time.UTC) }

func TestRunSplitsRegions(t *testing.T) {
	const n, k = 3, 5
	prologue := []string{"p1", "p2", "p3"}
	schema := []string{"<!DOCTYPE JMnedict [", "<!ELEMENT JMnedict (entry*)>", "]>"}
	var body []string
	for i := 0; i < k; i++ {
		body = append(body, kit.OneLineEntry(kit.FirstSeq+i))
	}
	src := kit.Text(append(append(append([]string{}, prologue...), schema...), body...))

	var s sinks
	res, err := Run(strings.NewReader(src), s.Sinks(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	if got := lines(s.prologue); len(got) != n || got[0] != "p1" || got[2] != "p3" {
		t.Fatalf("prologue = %v", got)
	}
	if got := lines(s.schema); len(got) != len(schema) || got[0] != schema[0] || got[2] != "]>" {
		t.Fatalf("schema = %v", got)
	}
	got := lines(s.entries)
	if len(got) != k {
		t.Fatalf("entries = %d lines, want %d", len(got), k)
	}
	for i := range body {
		if got[i] != body[i] {
			t.Fatalf("entry line %d out of order", i)
		}
	}
	if res.EntryCount != k || res.PrologueLines != n || res.SchemaLines != 3 || res.EntryLines != k {
		t.Fatalf("result = %+v", res)
	}

	m, err := metadata.Read(&s.meta)
	if err != nil {
		t.Fatal(err)
	}
	if m.EntryCount != k || !m.TimeUTC.Equal(fixedNow()) {
		t.Fatalf("metadata = %+v", m)
	}
}

func TestRunCountsMultiLineEntries(t *testing.T) {
	doc := kit.SampleDoc(4, false)
	var s sinks
	res, err := Run(strings.NewReader(kit.Text(doc.Lines())), s.Sinks(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.EntryCount != 4 {
		t.Fatalf("entry count = %d, want 4", res.EntryCount)
	}
	if res.EntryLines != len(doc.Body) {
		t.Fatalf("entry lines = %d, want %d", res.EntryLines, len(doc.Body))
	}
	if s.entries.String() != kit.Text(doc.Body) {
		t.Fatalf("entry region not verbatim")
	}
	if s.schema.String() != kit.Text(doc.Schema) {
		t.Fatalf("schema region not verbatim")
	}
}

func TestOnlyLinePrefixesCount(t *testing.T) {
	src := kit.Text([]string{
		"mentions <!DOCTYPE inline",
		"<!DOCTYPE x [",
		"  ]> indented does not close",
		"]>",
		"  <entry> indented",
		"<entry><ent_seq>1</ent_seq></entry>",
	})
	var s sinks
	res, err := Run(strings.NewReader(src), s.Sinks(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.PrologueLines != 1 || res.SchemaLines != 3 || res.EntryCount != 1 || res.EntryLines != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"no schema", "a\nb\n", ErrSchemaNotFound},
		{"unterminated", "a\n<!DOCTYPE x [\n<!ELEMENT x (y)>\n", ErrSchemaUnterminated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s sinks
			_, err := Run(strings.NewReader(tc.src), s.Sinks(), fixedNow)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !perr.IsCode(err, perr.ErrorCodeSegment) {
				t.Fatalf("code = %v", perr.CodeOf(err))
			}
			if s.meta.Len() != 0 {
				t.Fatalf("metadata written on failure")
			}
		})
	}
}

func TestEmptyEntryRegion(t *testing.T) {
	var s sinks
	res, err := Run(strings.NewReader("<!DOCTYPE x [\n]>\n"), s.Sinks(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.EntryCount != 0 || s.entries.Len() != 0 {
		t.Fatalf("result = %+v", res)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSinkErrorAborts(t *testing.T) {
	var s sinks
	sk := s.Sinks()
	sk.Entries = failWriter{}
	_, err := Run(strings.NewReader("<!DOCTYPE x [\n]>\n<entry></entry>\n"), sk, fixedNow)
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v, want io error", err)
	}
}

type failReader struct{ n int }

func (r *failReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		r.n++
		return copy(p, "line\n"), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestReadErrorAborts(t *testing.T) {
	var s sinks
	_, err := Run(&failReader{}, s.Sinks(), fixedNow)
	if !perr.IsCode(err, perr.ErrorCodeFetch) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v", err)
	}
}

func TestStateTransitions(t *testing.T) {
	seg := New(Sinks{})
	steps := []struct {
		line string
		want State
	}{
		{"prologue", Prologue},
		{"<!DOCTYPE JMnedict [", Schema},
		{"<!ELEMENT JMnedict (entry*)>", Schema},
		{"]>", Entries},
		{"<!DOCTYPE again", Entries},
	}
	for _, st := range steps {
		if err := seg.Feed(st.line); err != nil {
			t.Fatal(err)
		}
		if seg.State() != st.want {
			t.Fatalf("after %q state = %v, want %v", st.line, seg.State(), st.want)
		}
	}
	if _, err := seg.Finish(fixedNow()); err != nil {
		t.Fatalf("Finish with nil metadata sink: %v", err)
	}
}
