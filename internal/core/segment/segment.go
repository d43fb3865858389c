// Package segment splits the decompressed JMnedict source into its three regions
// (prologue, schema block, entry stream) in a single forward pass
package segment

import (
	"bufio"
	"io"
	"strings"
	"time"

	"jmnedict/internal/core/metadata"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
)

// Line markers. Each marker is expected at the start of its own line
const (
	SchemaOpen  = "<!DOCTYPE"
	SchemaClose = "]>"
	EntryOpen   = "<entry>"
)

const maxLineSize = 32 * 1024 * 1024

var (
	// ErrSchemaNotFound means the source ended before any schema block started
	ErrSchemaNotFound = perr.New(perr.ErrorCodeSegment, "segment: no schema block in source")
	// ErrSchemaUnterminated means the source ended inside the schema block
	ErrSchemaUnterminated = perr.New(perr.ErrorCodeSegment, "segment: schema block not terminated")
)

// State is the region the machine is currently routing lines to
type State uint8

const (
	// Prologue is the initial state
	Prologue State = iota
	// Schema holds the lines from the doctype opener through its terminator
	Schema
	// Entries is terminal
	Entries
)

func (s State) String() string {
	switch s {
	case Schema:
		return "schema"
	case Entries:
		return "entries"
	default:
		return "prologue"
	}
}

// Sinks are the destinations for each region. Entries is expected to be the
// recompressing writer; Metadata receives the properties record after the pass
type Sinks struct {
	Prologue io.Writer
	Schema   io.Writer
	Entries  io.Writer
	Metadata io.Writer
}

// Result summarizes one pass
type Result struct {
	EntryCount    int
	PrologueLines int
	SchemaLines   int
	EntryLines    int
	Bytes         int64
	Metadata      metadata.Metadata
}

// Segmenter is the three-state line router. It is not safe for concurrent use
type Segmenter struct {
	sinks Sinks
	state State
	res   Result
}

// New returns a Segmenter in the Prologue state
func New(s Sinks) *Segmenter { return &Segmenter{sinks: s} }

// State returns the current region
func (s *Segmenter) State() State { return s.state }

// Result returns the counters so far
func (s *Segmenter) Result() Result { return s.res }

// Feed routes one line (without its terminator)
func (s *Segmenter) Feed(line string) error {
	s.res.Bytes += int64(len(line) + 1)
	switch s.state {
	case Prologue:
		if strings.HasPrefix(line, SchemaOpen) {
			s.state = Schema
			s.res.SchemaLines++
			return writeLine(s.sinks.Schema, line, "schema")
		}
		s.res.PrologueLines++
		return writeLine(s.sinks.Prologue, line, "prologue")
	case Schema:
		s.res.SchemaLines++
		if strings.HasPrefix(line, SchemaClose) {
			s.state = Entries
		}
		return writeLine(s.sinks.Schema, line, "schema")
	default:
		if strings.HasPrefix(line, EntryOpen) {
			s.res.EntryCount++
		}
		s.res.EntryLines++
		return writeLine(s.sinks.Entries, line, "entries")
	}
}

// Finish checks the terminal state and writes the metadata record stamped with now
func (s *Segmenter) Finish(now time.Time) (Result, error) {
	switch s.state {
	case Prologue:
		return s.res, ErrSchemaNotFound
	case Schema:
		return s.res, ErrSchemaUnterminated
	}
	s.res.Metadata = metadata.New(s.res.EntryCount, now)
	if s.sinks.Metadata != nil {
		if err := metadata.Write(s.sinks.Metadata, s.res.Metadata); err != nil {
			return s.res, err
		}
	}
	return s.res, nil
}

// Run scans r to exhaustion, feeding every line, then finishes the pass.
// Read errors and sink errors abort immediately
func Run(r io.Reader, sinks Sinks, now func() time.Time) (Result, error) {
	if now == nil {
		now = time.Now
	}
	seg := New(sinks)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 256*1024), maxLineSize)
	for sc.Scan() {
		if err := seg.Feed(sc.Text()); err != nil {
			return seg.Result(), err
		}
	}
	if err := sc.Err(); err != nil {
		return seg.Result(), perr.Wrap(err, perr.ErrorCodeFetch, "segment: read source")
	}

	res, err := seg.Finish(now())
	if err != nil {
		return res, err
	}
	logger.Named("segment").Info().
		Int("entries", res.EntryCount).
		Int("prologue_lines", res.PrologueLines).
		Int("schema_lines", res.SchemaLines).
		Int("entry_lines", res.EntryLines).
		Int64("bytes", res.Bytes).
		Msg("segment: pass complete")
	return res, nil
}

func writeLine(w io.Writer, line, region string) error {
	if w == nil {
		return nil
	}
	if _, err := io.WriteString(w, line); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "segment: write %s", region)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "segment: write %s", region)
	}
	return nil
}
