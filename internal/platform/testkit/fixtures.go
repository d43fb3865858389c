package testkit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jmnedict/internal/core/dtd/builtin"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	sampleKeb = []string{"山田", "田中", "鈴木", "佐藤", "高橋", "東京", "大阪", "富士山"}
	sampleReb = []string{"やまだ", "たなか", "すずき", "さとう", "たかはし", "とうきょう", "おおさか", "ふじさん"}
	sampleDet = []string{"Yamada", "Tanaka", "Suzuki", "Satou", "Takahashi", "Tokyo", "Osaka", "Mount Fuji"}
	sampleTyp = []string{"surname", "surname", "surname", "surname", "surname", "place", "place", "place"}
)

// FirstSeq is the ent_seq of the first generated entry
const FirstSeq = 5000000

// Entry renders one entry in the upstream multi-line layout. Entries rotate
// through a small table of names; every third entry, starting at FirstSeq, has no
// kanji element
func Entry(seq int) []string {
	i := seq % len(sampleKeb)
	lines := []string{"<entry>", fmt.Sprintf("<ent_seq>%d</ent_seq>", seq)}
	if (seq-FirstSeq)%3 != 0 {
		lines = append(lines, "<k_ele>", "<keb>"+sampleKeb[i]+"</keb>", "</k_ele>")
	}
	lines = append(lines,
		"<r_ele>", "<reb>"+sampleReb[i]+"</reb>", "</r_ele>",
		"<trans>",
		"<name_type>&"+sampleTyp[i]+";</name_type>",
		"<trans_det>"+sampleDet[i]+"</trans_det>",
		"</trans>",
		"</entry>",
	)
	return lines
}

// OneLineEntry renders an entry on a single line
func OneLineEntry(seq int) string { return strings.Join(Entry(seq), "") }

// Doc is a synthetic source document split by region
type Doc struct {
	Prologue []string
	Schema   []string
	Body     []string
}

// SampleDoc builds a document with n entries numbered from FirstSeq. The body
// carries the root open and close lines around the entries like upstream does
func SampleDoc(n int, oneLine bool) Doc {
	d := Doc{
		Prologue: []string{
			`<?xml version="1.0" encoding="UTF-8"?>`,
			"<!-- Rev 1.09",
			"\tSynthetic fixture.",
			"-->",
		},
		Schema: builtin.Lines(),
		Body:   []string{"<!-- JMnedict created: 2026-10-16 -->", "<JMnedict>"},
	}
	for i := 0; i < n; i++ {
		if oneLine {
			d.Body = append(d.Body, OneLineEntry(FirstSeq+i))
		} else {
			d.Body = append(d.Body, Entry(FirstSeq+i)...)
		}
	}
	d.Body = append(d.Body, "</JMnedict>")
	return d
}

// Lines returns every line of the document in order
func (d Doc) Lines() []string {
	out := make([]string, 0, len(d.Prologue)+len(d.Schema)+len(d.Body))
	out = append(out, d.Prologue...)
	out = append(out, d.Schema...)
	return append(out, d.Body...)
}

// Text joins lines with a trailing newline on each
func Text(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// GzipLines gzip-compresses lines as Text would render them
func GzipLines(t testing.TB, lines []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(Text(lines))); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// ZstdLines zstd-compresses lines as Text would render them
func ZstdLines(t testing.TB, lines []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := zw.Write([]byte(Text(lines))); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data under dir and returns the full path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}
