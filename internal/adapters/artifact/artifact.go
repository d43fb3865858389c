// Package artifact names the files a fetch produces and writes them atomically:
// every artifact is staged as <name>.part and all of them are renamed into place
// only once the whole pass succeeded
package artifact

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"jmnedict/internal/core/codec"
	"jmnedict/internal/core/segment"
	perr "jmnedict/internal/platform/errors"
)

// Artifact file names
const (
	EntriesBase  = "jmnedict.xml"
	SchemaFile   = "dtd.xml"
	PrologueFile = "changelog.xml"
	MetadataFile = "metadata.properties"

	partSuffix = ".part"
)

// Layout locates the artifacts of one output directory
type Layout struct {
	Dir   string
	Codec codec.Codec
}

// EntriesName is the entry-stream file name for c
func EntriesName(c codec.Codec) string { return EntriesBase + c.Ext() }

// Entries is the entry-stream artifact path
func (l Layout) Entries() string { return filepath.Join(l.Dir, EntriesName(l.Codec)) }

// Schema is the schema artifact path
func (l Layout) Schema() string { return filepath.Join(l.Dir, SchemaFile) }

// Prologue is the prologue artifact path
func (l Layout) Prologue() string { return filepath.Join(l.Dir, PrologueFile) }

// Metadata is the metadata artifact path
func (l Layout) Metadata() string { return filepath.Join(l.Dir, MetadataFile) }

// Paths lists the four artifacts, entry stream first
func (l Layout) Paths() []string {
	return []string{l.Entries(), l.Schema(), l.Prologue(), l.Metadata()}
}

// promoteOrder renames the entry stream last. Freshness is judged by its mtime,
// so a promotion that fails halfway still leaves the directory stale
func (l Layout) promoteOrder() []string {
	return []string{l.Schema(), l.Prologue(), l.Metadata(), l.Entries()}
}

// rename is a seam for promotion failures in tests
var rename = os.Rename

// FindEntries locates the entry-stream artifact inside fsys, preferring zstd.
// A missing artifact is a NotFound error
func FindEntries(fsys fs.FS) (string, codec.Codec, error) {
	for _, c := range []codec.Codec{codec.Zstd, codec.Gzip} {
		name := EntriesName(c)
		fi, err := fs.Stat(fsys, name)
		if err == nil && fi.Mode().IsRegular() {
			return name, c, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", 0, perr.Wrap(err, perr.ErrorCodeIO, "artifact: stat entry stream")
		}
	}
	return "", 0, perr.NotFoundf("artifact: no %s.{zst,gz} found", EntriesBase)
}

// Staging holds the open .part files of an in-progress fetch
type Staging struct {
	layout  Layout
	files   []*os.File
	bufs    []*bufio.Writer
	entries io.WriteCloser
	done    bool
}

// Stage creates the output directory and the four .part files. The entry part is
// wrapped with the layout's recompressing writer
func Stage(l Layout) (*Staging, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "artifact: create output dir")
	}
	s := &Staging{layout: l}
	for _, p := range l.Paths() {
		f, err := os.Create(p + partSuffix)
		if err != nil {
			_ = s.Abort()
			return nil, perr.Wrap(err, perr.ErrorCodeIO, "artifact: create part file")
		}
		s.files = append(s.files, f)
		s.bufs = append(s.bufs, bufio.NewWriterSize(f, 256*1024))
	}
	w, err := l.Codec.NewWriter(s.bufs[0])
	if err != nil {
		_ = s.Abort()
		return nil, err
	}
	s.entries = w
	return s, nil
}

// Sinks routes the segmenter regions to the staged files
func (s *Staging) Sinks() segment.Sinks {
	return segment.Sinks{
		Entries:  s.entries,
		Schema:   s.bufs[1],
		Prologue: s.bufs[2],
		Metadata: s.bufs[3],
	}
}

// Layout returns the layout being staged
func (s *Staging) Layout() Layout { return s.layout }

// Commit flushes, syncs and closes every part then renames all of them into place.
// The entry artifact of the other codec is removed so readers never see two
func (s *Staging) Commit() error {
	if s.done {
		return nil
	}
	w := s.entries
	s.entries = nil
	if err := w.Close(); err != nil {
		_ = s.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "artifact: finish entry stream")
	}
	for i, f := range s.files {
		if err := s.bufs[i].Flush(); err != nil {
			_ = s.Abort()
			return perr.Wrap(err, perr.ErrorCodeIO, "artifact: flush "+filepath.Base(f.Name()))
		}
		if err := f.Sync(); err != nil {
			_ = s.Abort()
			return perr.Wrap(err, perr.ErrorCodeIO, "artifact: sync "+filepath.Base(f.Name()))
		}
	}
	if err := s.closeAll(); err != nil {
		_ = s.Abort()
		return perr.Wrap(err, perr.ErrorCodeIO, "artifact: close part file")
	}
	for _, p := range s.layout.promoteOrder() {
		if err := rename(p+partSuffix, p); err != nil {
			_ = s.Abort()
			return perr.Wrap(err, perr.ErrorCodeIO, "artifact: promote "+filepath.Base(p))
		}
	}
	s.done = true
	for _, c := range []codec.Codec{codec.Zstd, codec.Gzip} {
		if c == s.layout.Codec {
			continue
		}
		stale := filepath.Join(s.layout.Dir, EntriesName(c))
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return perr.Wrap(err, perr.ErrorCodeIO, "artifact: remove stale entry stream")
		}
	}
	return nil
}

// Abort closes and removes the parts; previously committed artifacts are untouched.
// Abort after Commit is a no-op
func (s *Staging) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.entries != nil {
		_ = s.entries.Close()
		s.entries = nil
	}
	first := s.closeAll()
	for _, p := range s.layout.Paths() {
		if err := os.Remove(p + partSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) && first == nil {
			first = err
		}
	}
	return first
}

func (s *Staging) closeAll() error {
	var first error
	for i, f := range s.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
		s.files[i] = nil
	}
	return first
}
