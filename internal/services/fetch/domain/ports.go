package domain

import (
	"context"
	"io"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, force bool) (Result, error)
}

// Source opens the decompressed upstream document
type Source interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}
