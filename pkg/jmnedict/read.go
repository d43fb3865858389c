package jmnedict

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"jmnedict/internal/adapters/artifact"
	"jmnedict/internal/core/codec"
	"jmnedict/internal/core/dtd"
	"jmnedict/internal/core/entrystream"
	"jmnedict/internal/core/fragment"
	"jmnedict/internal/core/metadata"
	perr "jmnedict/internal/platform/errors"
)

// DefaultBatchSize is the number of entries decoded per fragment
const DefaultBatchSize = entrystream.DefaultBatchSize

type (
	// Policy controls how strictly fragments are decoded
	Policy = fragment.Policy
	// Schema is a parsed document type declaration
	Schema = dtd.Schema
	// Metadata is the record written alongside the entry stream
	Metadata = metadata.Metadata
)

// DefaultPolicy is the policy entries are decoded with unless overridden
func DefaultPolicy() Policy { return fragment.DefaultPolicy() }

// DefaultSchema is the embedded JMnedict declaration
func DefaultSchema() *Schema { return dtd.Default() }

// ParseSchema parses a schema artifact
func ParseSchema(r io.Reader) (*Schema, error) { return dtd.Parse(r) }

// Option configures a Reader
type Option func(*options)

type options struct {
	batchSize int
	policy    Policy
	schema    *Schema
}

// WithBatchSize sets the entries per decoded fragment; values below 1 keep the default
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithPolicy replaces the decode policy
func WithPolicy(p Policy) Option { return func(o *options) { o.policy = p } }

// WithSchema validates against s instead of the schema artifact
func WithSchema(s *Schema) Option { return func(o *options) { o.schema = s } }

func collect(opts []Option) options {
	o := options{batchSize: DefaultBatchSize, policy: fragment.DefaultPolicy()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Reader is a pull iterator over entries. Not safe for concurrent use
type Reader struct {
	inner *entrystream.Reader[Entry]
	close []io.Closer
}

// Next returns the next entry or io.EOF. After any other error the traversal is over
func (r *Reader) Next() (Entry, error) { return r.inner.Next() }

// All ranges over the remaining entries, yielding at most one error
func (r *Reader) All() iter.Seq2[Entry, error] { return r.inner.All() }

// Stats returns batches decoded and entries returned so far
func (r *Reader) Stats() (batches, entries int) {
	b, n, _ := r.inner.Stats()
	return b, n
}

// Close releases the decompressor and the artifact file
func (r *Reader) Close() error {
	var first error
	for _, c := range r.close {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.close = nil
	return first
}

// Open reads the artifacts in dir
func Open(dir string, opts ...Option) (*Reader, error) {
	return OpenFS(os.DirFS(dir), opts...)
}

// OpenFS reads the artifacts at the root of fsys. The codec comes from the entry
// stream's name; the schema artifact is used when present
func OpenFS(fsys fs.FS, opts ...Option) (*Reader, error) {
	o := collect(opts)
	if o.schema == nil {
		s, err := schemaFrom(fsys)
		if err != nil {
			return nil, err
		}
		o.schema = s
	}
	name, c, err := artifact.FindEntries(fsys)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "jmnedict: open entry stream")
	}
	return build(f, c, o, f)
}

// NewReader decodes a compressed entry stream from r, detecting zstd or gzip by
// its header. Close does not close r
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := collect(opts)
	if o.schema == nil {
		o.schema = dtd.Default()
	}
	c, br, err := codec.Sniff(r)
	if err != nil {
		return nil, err
	}
	return build(br, c, o, nil)
}

func build(r io.Reader, c codec.Codec, o options, owned io.Closer) (*Reader, error) {
	fail := func(err error) (*Reader, error) {
		if owned != nil {
			_ = owned.Close()
		}
		return nil, err
	}
	dec, err := fragment.NewDecoder[Entry](o.schema, o.policy)
	if err != nil {
		return fail(err)
	}
	plain, err := c.NewReader(r)
	if err != nil {
		return fail(err)
	}
	rd := &Reader{
		inner: entrystream.NewReader[Entry](plain, dec, o.batchSize),
		close: []io.Closer{plain},
	}
	if owned != nil {
		rd.close = append(rd.close, owned)
	}
	return rd, nil
}

func schemaFrom(fsys fs.FS) (*Schema, error) {
	f, err := fsys.Open(artifact.SchemaFile)
	if errors.Is(err, fs.ErrNotExist) {
		return dtd.Default(), nil
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "jmnedict: open schema artifact")
	}
	defer func() { _ = f.Close() }()
	return dtd.Parse(f)
}

// Stream yields every entry of the artifacts in fsys. Each range re-opens the
// artifact; breaking out early releases it. Cancelling ctx ends the sequence with
// ctx's error
func Stream(ctx context.Context, fsys fs.FS, opts ...Option) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		rd, err := OpenFS(fsys, opts...)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		defer func() { _ = rd.Close() }()
		for {
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}
			e, err := rd.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Count traverses the artifacts and returns the number of entries
func Count(ctx context.Context, fsys fs.FS, opts ...Option) (int, error) {
	n := 0
	for _, err := range Stream(ctx, fsys, opts...) {
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ReadMetadata reads the metadata artifact in dir
func ReadMetadata(dir string) (Metadata, error) {
	return metadata.ReadFile(filepath.Join(dir, artifact.MetadataFile))
}

// ReadMetadataFS reads the metadata artifact at the root of fsys
func ReadMetadataFS(fsys fs.FS) (Metadata, error) {
	return metadata.ReadFS(fsys, artifact.MetadataFile)
}
