// Package entrystream regroups the entry-stream artifact into entry-aligned
// chunks, batches them into synthetic fragments and decodes one batch at a time.
//
// Design choices:
//   - Line oriented. A chunk starts at every line containing "<entry>"; entries
//     never nest and each opening tag sits on its own line upstream.
//   - Lines inside a batch are concatenated without separators.
//   - The closing line of the document root ends the stream; upstream files end
//     with it and it would otherwise land inside the last chunk.
//   - Nothing runs ahead of the consumer: one batch of text and its decoded
//     values are the only buffered state.
package entrystream

import (
	"bufio"
	"io"
	"strings"

	perr "jmnedict/internal/platform/errors"
)

const (
	// DefaultBatchSize is the number of entries per decoded fragment
	DefaultBatchSize = 100
	// EntryMarker starts a new chunk
	EntryMarker = "<entry>"

	maxLineSize = 32 * 1024 * 1024
)

// Batch is up to size consecutive chunks, concatenated
type Batch struct {
	Index   int
	Entries int
	Body    string
}

// Batcher slices a line stream into batches. Not safe for concurrent use
type Batcher struct {
	sc      *bufio.Scanner
	size    int
	trailer string

	pending    string
	hasPending bool
	started    bool
	done       bool
	err        error

	batches int
	entries int
	lines   int
	skipped int
	buf     strings.Builder
}

// NewBatcher reads lines from r. size < 1 falls back to DefaultBatchSize; root
// names the document element whose closing line ends the stream (empty disables)
func NewBatcher(r io.Reader, size int, root string) *Batcher {
	if size < 1 {
		size = DefaultBatchSize
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 256*1024), maxLineSize)
	b := &Batcher{sc: sc, size: size}
	if root != "" {
		b.trailer = "</" + root + ">"
	}
	return b
}

// Next returns the next batch or io.EOF. Errors are sticky
func (b *Batcher) Next() (Batch, error) {
	if b.err != nil {
		return Batch{}, b.err
	}
	if !b.started {
		b.started = true
		if err := b.seekFirst(); err != nil {
			b.err = err
			return Batch{}, err
		}
	}
	if !b.hasPending {
		b.err = io.EOF
		return Batch{}, io.EOF
	}

	b.buf.Reset()
	n := 0
	for n < b.size && b.hasPending {
		b.buf.WriteString(b.pending)
		b.hasPending = false
		n++
		if err := b.readChunkTail(); err != nil {
			b.err = err
			return Batch{}, err
		}
	}
	batch := Batch{Index: b.batches, Entries: n, Body: b.buf.String()}
	b.batches++
	b.entries += n
	return batch, nil
}

// seekFirst drops leading residue up to the first chunk opener
func (b *Batcher) seekFirst() error {
	for b.sc.Scan() {
		line, end := b.cut(b.sc.Text())
		b.lines++
		if strings.Contains(line, EntryMarker) {
			b.pending, b.hasPending = line, true
			b.done = end
			return nil
		}
		if end {
			b.done = true
			return nil
		}
		b.skipped++
	}
	return b.scanErr()
}

// readChunkTail appends lines until the next opener, the trailer or EOF
func (b *Batcher) readChunkTail() error {
	if b.done {
		return nil
	}
	for b.sc.Scan() {
		line, end := b.cut(b.sc.Text())
		b.lines++
		if strings.Contains(line, EntryMarker) {
			b.pending, b.hasPending = line, true
			b.done = end
			return nil
		}
		b.buf.WriteString(line)
		if end {
			b.done = true
			return nil
		}
	}
	b.done = true
	return b.scanErr()
}

// cut drops the root closing tag and anything after it; end reports whether it was found
func (b *Batcher) cut(line string) (string, bool) {
	if b.trailer == "" {
		return line, false
	}
	if i := strings.Index(line, b.trailer); i >= 0 {
		return line[:i], true
	}
	return line, false
}

func (b *Batcher) scanErr() error {
	if err := b.sc.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "entrystream: read artifact")
	}
	return nil
}

// Stats returns batches and entries produced plus lines read and skipped
func (b *Batcher) Stats() (batches, entries, lines, skipped int) {
	return b.batches, b.entries, b.lines, b.skipped
}
