// Package api provides the HTTP read API over the fetched dictionary
package api

import (
	"io/fs"
	"os"

	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"
	phttp "jmnedict/internal/platform/net/http"
	"jmnedict/internal/platform/store"

	"jmnedict/internal/modkit"
	"jmnedict/internal/modkit/httpkit"
	"jmnedict/internal/modkit/swaggerkit"

	entriesmod "jmnedict/internal/services/api/entries/module"
	metamod "jmnedict/internal/services/api/meta/module"
)

// Base is the path every module mounts under
const Base = "/api/v1"

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger

	// ArtifactDir is read on every request, so a fetch landing while the API runs is served
	ArtifactDir string
	// Artifacts overrides ArtifactDir, mostly for tests
	Artifacts fs.FS

	// Store is optional; its connections are reported by /meta/ready
	Store *store.Store

	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the registry of
// mounted modules
func Mount(r phttp.Router, opt Options) *modkit.Registry {
	artifacts := opt.Artifacts
	if artifacts == nil && opt.ArtifactDir != "" {
		artifacts = os.DirFS(opt.ArtifactDir)
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:         opt.Logger,
		Cfg:         opt.Config,
		Artifacts:   artifacts,
		ArtifactDir: opt.ArtifactDir,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	reg := modkit.NewRegistry()
	reg.Add(metamod.New(deps, reg.Names))
	reg.Add(entriesmod.New(deps))

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		reg.Each(func(m modkit.Module) { m.MountRoutes(api) })
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	deps.Logger().Info().Strs("modules", reg.Names()).Msg("api: modules mounted")
	return reg
}
