// Package modkit wires API modules: the shared deps they are built from, the
// options that shape them and the registry they are mounted through
package modkit

import (
	"io/fs"

	"jmnedict/internal/modkit/httpkit"
	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"
	"jmnedict/internal/platform/store"
)

// Deps holds the core dependencies passed to every module. PG and CH are nil
// unless the loader's stores are configured
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf

	// Artifacts is the directory the fetch command writes to
	Artifacts fs.FS
	// ArtifactDir is the same directory as a path, for stat based checks
	ArtifactDir string

	PG store.TxRunner
	CH store.Clickhouse
}

// Logger returns d.Log or the root logger
func (d Deps) Logger() *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Get()
}

// Module is the surface an API module exposes to the mount code
type Module interface {
	// MountRoutes mounts the module's routes under its prefix
	MountRoutes(r httpkit.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any
	Name() string
	Prefix() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
