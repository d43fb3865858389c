package artifact

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"jmnedict/internal/core/codec"
	perr "jmnedict/internal/platform/errors"
	kit "jmnedict/internal/platform/testkit"
)

func writeAll(t *testing.T, s *Staging) {
	t.Helper()
	sinks := s.Sinks()
	for _, w := range []io.Writer{sinks.Prologue, sinks.Schema, sinks.Entries, sinks.Metadata} {
		if _, err := io.WriteString(w, "line\n"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLayoutNames(t *testing.T) {
	l := Layout{Dir: "/out", Codec: codec.Zstd}
	want := []string{"/out/jmnedict.xml.zst", "/out/dtd.xml", "/out/changelog.xml", "/out/metadata.properties"}
	for i, p := range l.Paths() {
		if p != filepath.FromSlash(want[i]) {
			t.Fatalf("path %d = %s, want %s", i, p, want[i])
		}
	}
	if got := EntriesName(codec.Gzip); got != "jmnedict.xml.gz" {
		t.Fatalf("gzip name = %s", got)
	}
}

func TestCommitPromotesAll(t *testing.T) {
	dir := t.TempDir()
	l := Layout{Dir: filepath.Join(dir, "nested"), Codec: codec.Gzip}
	s, err := Stage(l)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s)
	for _, p := range l.Paths() {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s visible before commit", p)
		}
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	for _, p := range l.Paths() {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("%s missing after commit: %v", p, err)
		}
		if _, err := os.Stat(p + ".part"); !os.IsNotExist(err) {
			t.Fatalf("%s.part left behind", p)
		}
	}
	b, err := os.ReadFile(l.Schema())
	if err != nil || string(b) != "line\n" {
		t.Fatalf("schema = %q, %v", b, err)
	}

	f, err := os.Open(l.Entries())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rc, err := codec.Gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := io.ReadAll(rc)
	if err != nil || string(plain) != "line\n" {
		t.Fatalf("entries = %q, %v", plain, err)
	}
	if err := s.Abort(); err != nil {
		t.Fatalf("abort after commit should be a no-op: %v", err)
	}
}

func TestAbortKeepsPreviousArtifacts(t *testing.T) {
	dir := t.TempDir()
	l := Layout{Dir: dir, Codec: codec.Zstd}
	for _, p := range l.Paths() {
		if err := os.WriteFile(p, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := Stage(l)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s)
	if err := s.Abort(); err != nil {
		t.Fatal(err)
	}
	if err := s.Abort(); err != nil {
		t.Fatalf("second abort: %v", err)
	}
	for _, p := range l.Paths() {
		b, err := os.ReadFile(p)
		if err != nil || string(b) != "old" {
			t.Fatalf("%s = %q, %v", p, b, err)
		}
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".part") {
			t.Fatalf("part file %s left behind", e.Name())
		}
	}
}

func TestCommitPromotesEntryStreamLast(t *testing.T) {
	dir := t.TempDir()
	l := Layout{Dir: dir, Codec: codec.Zstd}
	for _, p := range l.Paths() {
		if err := os.WriteFile(p, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	var renamed []string
	kit.Swap(t, &rename, func(from, to string) error {
		renamed = append(renamed, to)
		if to == l.Entries() {
			return errors.New("disk full")
		}
		return os.Rename(from, to)
	})

	s, err := Stage(l)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s)
	if err := s.Commit(); !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v, want io", err)
	}
	if len(renamed) != 4 || renamed[3] != l.Entries() {
		t.Fatalf("promotion order = %v", renamed)
	}
	// the old entry stream and its mtime survive, so the next fetch sees it stale
	if b, err := os.ReadFile(l.Entries()); err != nil || string(b) != "old" {
		t.Fatalf("entries = %q, %v", b, err)
	}
	if _, err := os.Stat(l.Entries() + ".part"); !os.IsNotExist(err) {
		t.Fatal("entry part left behind")
	}
}

func TestCommitRemovesOtherCodec(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, EntriesName(codec.Gzip))
	if err := os.WriteFile(old, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Stage(Layout{Dir: dir, Codec: codec.Zstd})
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("gzip entry stream survived a zstd commit")
	}
}

func TestFindEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"jmnedict.xml.gz":  {Data: []byte{0x1f, 0x8b}},
		"jmnedict.xml.zst": {Data: []byte{0x28, 0xb5, 0x2f, 0xfd}},
	}
	name, c, err := FindEntries(fsys)
	if err != nil || name != "jmnedict.xml.zst" || c != codec.Zstd {
		t.Fatalf("got %s %v %v", name, c, err)
	}
	delete(fsys, "jmnedict.xml.zst")
	if _, c, _ := FindEntries(fsys); c != codec.Gzip {
		t.Fatalf("fallback codec = %v", c)
	}
	_, _, err = FindEntries(fstest.MapFS{})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
