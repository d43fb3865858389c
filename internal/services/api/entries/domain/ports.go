package domain

import (
	"context"
	"iter"

	"jmnedict/pkg/jmnedict"
)

// ServicePort defines the service contract for entries
type ServicePort interface {
	List(ctx context.Context, in ListInput) (ListResult, error)
	Get(ctx context.Context, seq int) (jmnedict.Entry, error)
}

// SourcePort yields the decoded entries of the current artifacts
type SourcePort interface {
	Entries(ctx context.Context) iter.Seq2[jmnedict.Entry, error]
	Schema() (*jmnedict.Schema, error)
}
