package entrystream

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"jmnedict/internal/core/fragment"
	perr "jmnedict/internal/platform/errors"
	kit "jmnedict/internal/platform/testkit"
)

type entry struct {
	XMLName xml.Name `xml:"entry"`
	Seq     int      `xml:"ent_seq"`
	Reb     []string `xml:"r_ele>reb"`
}

type reading struct {
	Reb string `xml:"reb"`
}

type flatEntry struct {
	XMLName  xml.Name  `xml:"entry"`
	Seq      int       `xml:"ent_seq"`
	Readings []reading `xml:"r_ele"`
}

func newDecoder(t testing.TB) *fragment.Decoder[flatEntry] {
	t.Helper()
	d, err := fragment.NewDecoder[flatEntry](nil, fragment.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func body(n int, oneLine bool) string {
	return kit.Text(kit.SampleDoc(n, oneLine).Body)
}

func TestBatchSizes(t *testing.T) {
	b := NewBatcher(strings.NewReader(body(250, true)), 100, "JMnedict")
	var sizes []int
	for {
		batch, err := b.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if batch.Index != len(sizes) {
			t.Fatalf("batch index = %d, want %d", batch.Index, len(sizes))
		}
		sizes = append(sizes, batch.Entries)
	}
	if len(sizes) != 3 || sizes[0] != 100 || sizes[1] != 100 || sizes[2] != 50 {
		t.Fatalf("sizes = %v, want [100 100 50]", sizes)
	}
	batches, entries, _, skipped := b.Stats()
	if batches != 3 || entries != 250 {
		t.Fatalf("stats = %d batches %d entries", batches, entries)
	}
	if skipped != 2 {
		t.Fatalf("skipped = %d, want comment and root lines", skipped)
	}
	// sticky EOF
	if _, err := b.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("second EOF = %v", err)
	}
}

func TestExactMultipleHasNoEmptyBatch(t *testing.T) {
	b := NewBatcher(strings.NewReader(body(200, false)), 100, "JMnedict")
	n := 0
	for {
		batch, err := b.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if batch.Entries == 0 {
			t.Fatal("empty batch")
		}
		n++
	}
	if n != 2 {
		t.Fatalf("batches = %d, want 2", n)
	}
}

func TestBatchBodyConcatenatesWithoutSeparators(t *testing.T) {
	b := NewBatcher(strings.NewReader(body(2, false)), 10, "JMnedict")
	batch, err := b.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := kit.OneLineEntry(kit.FirstSeq) + kit.OneLineEntry(kit.FirstSeq+1)
	if batch.Body != want {
		t.Fatalf("body = %q\nwant %q", batch.Body, want)
	}
	if strings.Contains(batch.Body, "JMnedict") {
		t.Fatal("root tags leaked into the batch")
	}
}

func TestNoEntries(t *testing.T) {
	for _, src := range []string{"", "<!-- nothing -->\n<JMnedict>\n</JMnedict>\n"} {
		b := NewBatcher(strings.NewReader(src), 0, "JMnedict")
		if _, err := b.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("%q: err = %v, want EOF", src, err)
		}
	}
}

func TestTrailerOnEntryLine(t *testing.T) {
	src := "<JMnedict>\n" + kit.OneLineEntry(kit.FirstSeq) + "</JMnedict>\n"
	rd := NewReader(strings.NewReader(src), newDecoder(t), 0)
	e, err := rd.Next()
	if err != nil {
		t.Fatal(err)
	}
	if e.Seq != kit.FirstSeq {
		t.Fatalf("seq = %d", e.Seq)
	}
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestReaderYieldsAllInOrder(t *testing.T) {
	for _, oneLine := range []bool{true, false} {
		rd := NewReader(strings.NewReader(body(250, oneLine)), newDecoder(t), 100)
		want := kit.FirstSeq
		for e, err := range rd.All() {
			if err != nil {
				t.Fatal(err)
			}
			if e.Seq != want {
				t.Fatalf("seq = %d, want %d", e.Seq, want)
			}
			if len(e.Readings) != 1 || e.Readings[0].Reb == "" {
				t.Fatalf("entry %d readings = %+v", e.Seq, e.Readings)
			}
			want++
		}
		if want != kit.FirstSeq+250 {
			t.Fatalf("oneLine=%v: read %d entries", oneLine, want-kit.FirstSeq)
		}
		batches, entries, _ := rd.Stats()
		if batches != 3 || entries != 250 {
			t.Fatalf("stats = %d %d", batches, entries)
		}
	}
}

func TestReaderIsRepeatable(t *testing.T) {
	src := body(30, false)
	count := func() int {
		n := 0
		for _, err := range NewReader(strings.NewReader(src), newDecoder(t), 7).All() {
			if err != nil {
				t.Fatal(err)
			}
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 30 || b != 30 {
		t.Fatalf("counts = %d %d", a, b)
	}
}

func TestViolationAbortsTraversal(t *testing.T) {
	lines := kit.SampleDoc(5, true).Body
	// entry 3 carries a second ent_seq
	lines[4] = strings.Replace(lines[4], "</ent_seq>", "</ent_seq><ent_seq>1</ent_seq>", 1)
	rd := NewReader(strings.NewReader(kit.Text(lines)), newDecoder(t), 2)

	var got []int
	var failure error
	for e, err := range rd.All() {
		if err != nil {
			failure = err
			break
		}
		got = append(got, e.Seq)
	}
	if failure == nil {
		t.Fatal("expected a decode failure")
	}
	if !perr.IsCode(failure, perr.ErrorCodeDecode) || !errors.Is(failure, fragment.ErrRepeated) {
		t.Fatalf("err = %v (code %v)", failure, perr.CodeOf(failure))
	}
	kit.MustContain(t, failure.Error(), "batch 1")
	if len(got) != 2 {
		t.Fatalf("yielded %v before the failing batch", got)
	}
	if _, err := rd.Next(); !errors.Is(err, fragment.ErrRepeated) {
		t.Fatalf("error not sticky: %v", err)
	}
}

func TestUnterminatedChunkFails(t *testing.T) {
	src := "<JMnedict>\n" + kit.OneLineEntry(kit.FirstSeq) + "\n<entry><ent_seq>9</ent_seq>\n"
	rd := NewReader(strings.NewReader(src), newDecoder(t), 0)
	_, err := rd.Next()
	if !errors.Is(err, fragment.ErrSyntax) {
		t.Fatalf("err = %v, want syntax", err)
	}
}

type closeSpy struct {
	io.Reader
	closed int
}

func (c *closeSpy) Close() error { c.closed++; return nil }

func TestCloseReachesSource(t *testing.T) {
	spy := &closeSpy{Reader: strings.NewReader(body(1, true))}
	rd := NewReader(spy, newDecoder(t), 0)
	if err := rd.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rd.Close(); err != nil {
		t.Fatal(err)
	}
	if spy.closed != 1 {
		t.Fatalf("closed %d times", spy.closed)
	}
}

func TestNestedPathTagRejected(t *testing.T) {
	if _, err := fragment.NewDecoder[entry](nil, fragment.DefaultPolicy()); err == nil {
		t.Fatal("a>b paths are not bindable and must be refused")
	}
}

func BenchmarkReader(b *testing.B) {
	src := body(1000, false)
	dec := newDecoder(b)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for b.Loop() {
		rd := NewReader(strings.NewReader(src), dec, DefaultBatchSize)
		for _, err := range rd.All() {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
