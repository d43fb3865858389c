// Package ingest adapts the source adapter to the fetch Source port
package ingest

import (
	"context"
	"io"
	"time"

	"jmnedict/internal/adapters/source"
	"jmnedict/internal/services/fetch/domain"
)

type decompressing struct {
	o source.Opener
}

// NewSource opens uri with a scheme-dispatching opener and strips the gzip layer
func NewSource(httpTimeout time.Duration) domain.Source {
	return decompressing{o: source.New(httpTimeout)}
}

// Wrap adapts any opener; tests use it with local fixtures
func Wrap(o source.Opener) domain.Source { return decompressing{o: o} }

func (d decompressing) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	rc, err := d.o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return source.Decompress(rc)
}
