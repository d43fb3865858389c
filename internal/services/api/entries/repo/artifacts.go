// Package repo reads entries from the fetched artifacts
package repo

import (
	"context"
	"io/fs"
	"iter"

	"jmnedict/internal/adapters/artifact"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/pkg/jmnedict"
)

// Artifacts streams entries from an artifact directory. Every traversal reopens
// the artifacts so a fetch that lands while the API runs is picked up
type Artifacts struct {
	fsys fs.FS
	opts []jmnedict.Option
}

// NewArtifacts returns a source over fsys
func NewArtifacts(fsys fs.FS, opts ...jmnedict.Option) *Artifacts {
	return &Artifacts{fsys: fsys, opts: opts}
}

// Entries implements domain.SourcePort
func (a *Artifacts) Entries(ctx context.Context) iter.Seq2[jmnedict.Entry, error] {
	if a.fsys == nil {
		return func(yield func(jmnedict.Entry, error) bool) {
			yield(jmnedict.Entry{}, perr.NotFoundf("entries: no artifact directory configured"))
		}
	}
	return jmnedict.Stream(ctx, a.fsys, a.opts...)
}

// Schema implements domain.SourcePort. The schema artifact wins over the embedded one
func (a *Artifacts) Schema() (*jmnedict.Schema, error) {
	if a.fsys == nil {
		return jmnedict.DefaultSchema(), nil
	}
	f, err := a.fsys.Open(artifact.SchemaFile)
	if err != nil {
		return jmnedict.DefaultSchema(), nil
	}
	defer func() { _ = f.Close() }()
	return jmnedict.ParseSchema(f)
}
