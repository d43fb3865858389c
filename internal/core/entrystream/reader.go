package entrystream

import (
	"errors"
	"io"
	"iter"

	"jmnedict/internal/core/fragment"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
	pstrings "jmnedict/internal/platform/strings"
)

const sampleFragmentMax = 2048 // max bytes of fragment text to log for the sample

// Reader yields decoded entries one at a time, decoding a batch only when the
// previous one is exhausted
type Reader[T any] struct {
	b   *Batcher
	dec *fragment.Decoder[T]
	c   io.Closer

	buf     []T
	pos     int
	err     error
	sampled bool // logs exactly one fragment sample per stream
}

// NewReader reads the entry-stream artifact from r. If r is an io.Closer,
// Close closes it
func NewReader[T any](r io.Reader, dec *fragment.Decoder[T], size int) *Reader[T] {
	rd := &Reader[T]{b: NewBatcher(r, size, dec.Root()), dec: dec}
	if c, ok := r.(io.Closer); ok {
		rd.c = c
	}
	return rd
}

// Next returns the next entry; io.EOF when done. Any decode failure is sticky
// and ends the traversal
func (rd *Reader[T]) Next() (T, error) {
	var zero T
	if rd.err != nil {
		return zero, rd.err
	}
	for rd.pos >= len(rd.buf) {
		if err := rd.fill(); err != nil {
			rd.err = err
			rd.buf, rd.pos = nil, 0
			return zero, err
		}
	}
	v := rd.buf[rd.pos]
	rd.buf[rd.pos] = zero
	rd.pos++
	return v, nil
}

func (rd *Reader[T]) fill() error {
	batch, err := rd.b.Next()
	if err != nil {
		return err
	}
	text := rd.dec.Wrap(batch.Body)
	if !rd.sampled {
		rd.sampled = true
		logger.Named("entrystream").Debug().
			Int("batch_entries", batch.Entries).
			Int("fragment_bytes", len(text)).
			Str("sample_fragment", pstrings.TruncateUTF8(text, sampleFragmentMax)).
			Msg("entrystream: sample fragment")
	}
	out, err := rd.dec.Decode(text)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDecode, "entrystream: batch %d", batch.Index)
	}
	if len(out) != batch.Entries {
		return perr.Newf(perr.ErrorCodeDecode, "entrystream: batch %d held %d chunks but decoded %d entries", batch.Index, batch.Entries, len(out))
	}
	rd.buf, rd.pos = out, 0
	return nil
}

// All ranges over the remaining entries. The sequence stops after the first
// error, which is yielded with a zero value
func (rd *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := rd.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Stats returns batches decoded, entries handed out so far and residue lines skipped
func (rd *Reader[T]) Stats() (batches, entries, skipped int) {
	b, n, _, s := rd.b.Stats()
	return b, n - (len(rd.buf) - rd.pos), s
}

// Close closes the underlying reader when it is closable
func (rd *Reader[T]) Close() error {
	if rd.c == nil {
		return nil
	}
	err := rd.c.Close()
	rd.c = nil
	return err
}
