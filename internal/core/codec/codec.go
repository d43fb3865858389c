// Package codec names the compression formats used for the entry-stream artifact
// and builds readers and writers for them
package codec

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	perr "jmnedict/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec is an entry-stream compression format
type Codec uint8

const (
	// Zstd is the default artifact codec
	Zstd Codec = iota
	// Gzip matches the upstream source encoding
	Gzip
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// String returns the config label
func (c Codec) String() string {
	if c == Gzip {
		return "gzip"
	}
	return "zstd"
}

// Ext returns the file extension including the dot
func (c Codec) Ext() string {
	if c == Gzip {
		return ".gz"
	}
	return ".zst"
}

// Parse maps a config label to a Codec
func Parse(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zstd", "zst":
		return Zstd, nil
	case "gzip", "gz":
		return Gzip, nil
	}
	return Zstd, perr.InvalidArgf("codec: unknown codec %q", s)
}

// FromPath picks a codec by file extension
func FromPath(name string) (Codec, bool) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return Zstd, true
	case strings.HasSuffix(name, ".gz"):
		return Gzip, true
	}
	return Zstd, false
}

// NewWriter wraps w with a compressing writer; Close flushes the frame but leaves w open
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	if c == Gzip {
		return gzip.NewWriter(w), nil
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "codec: zstd writer")
	}
	return enc, nil
}

// NewReader wraps r with a decompressing reader; Close releases decoder state only
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	if c == Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeIO, "codec: gzip header")
		}
		return gz, nil
	}
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "codec: zstd reader")
	}
	return dec.IOReadCloser(), nil
}

// Sniff peeks at the first bytes of r to detect the codec. The returned reader
// replays the peeked bytes
func Sniff(r io.Reader) (Codec, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Zstd, br, perr.Wrap(err, perr.ErrorCodeIO, "codec: sniff")
	}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd, br, nil
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip, br, nil
	}
	return Zstd, br, perr.Newf(perr.ErrorCodeDecode, "codec: unrecognized stream header % x", head)
}
