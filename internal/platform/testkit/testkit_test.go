package testkit

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

var seam = func() string { return "real" }

func TestPanicHelpers(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
	MustContain(t, "alpha beta gamma", "beta")
}

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seam, func() string { return "fake" })
		if seam() != "fake" {
			t.Fatalf("swap did not take effect")
		}
	})
	if seam() != "real" {
		t.Fatalf("swap not restored, got %q", seam())
	}
}

func TestEntryShape(t *testing.T) {
	withKanji := Entry(FirstSeq + 1)
	if withKanji[0] != "<entry>" || withKanji[len(withKanji)-1] != "</entry>" {
		t.Fatalf("entry not bracketed: %v", withKanji)
	}
	MustContain(t, strings.Join(withKanji, ""), "<keb>")

		if strings.Contains(OneLineEntry(FirstSeq), "<keb>") {
		t.Fatalf("expected kana-only entry at FirstSeq")
	}
}

func TestSampleDocRegions(t *testing.T) {
	d := SampleDoc(3, true)
	if !strings.HasPrefix(d.Schema[0], "<!DOCTYPE JMnedict") {
		t.Fatalf("schema opener = %q", d.Schema[0])
	}
	if !strings.HasPrefix(d.Schema[len(d.Schema)-1], "]>") {
		t.Fatalf("schema terminator = %q", d.Schema[len(d.Schema)-1])
	}
	if got := len(d.Body); got != 3+3 {
		t.Fatalf("body lines = %d", got)
	}
	if got := len(d.Lines()); got != len(d.Prologue)+len(d.Schema)+len(d.Body) {
		t.Fatalf("Lines len = %d", got)
	}
}

func TestGzipLines(t *testing.T) {
	raw := GzipLines(t, []string{"a", "b"})
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a\nb\n" {
		t.Fatalf("gzip payload = %q", out)
	}
}
