// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"io/fs"
	"net/http"
	"time"

	"jmnedict/internal/adapters/artifact"
	"jmnedict/internal/core/freshness"
	"jmnedict/internal/core/version"
	"jmnedict/internal/modkit/httpkit"
	perr "jmnedict/internal/platform/errors"
	ptime "jmnedict/internal/platform/time"
	"jmnedict/pkg/jmnedict"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Artifacts is the fetch output directory
	Artifacts fs.FS
	// Freshness is the age below which the artifacts count as fresh; <= 0 reports stale
	Freshness time.Duration
	// Modules lists mounted module names
	Modules func() []string

	PG any
	CH any

	Now func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/dictionary", h.dictionary)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"jmnedict-api"`
	Started string `json:"started"  example:"2026-10-16T13:00:00Z"`
	Now     string `json:"now"      example:"2026-10-16T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"artifacts"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"entry stream not found"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-16T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string   `json:"name"    example:"jmnedict-api"`
	Started string   `json:"started" example:"2026-10-16T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules" example:"meta,entries"`
}

// DictionaryResponse reports what the last fetch produced
type DictionaryResponse struct {
	EntryCount int    `json:"entry_count" example:"743000"`
	FetchedAt  string `json:"fetched_at"  example:"2026-10-16T03:00:00Z"`
	AgeSeconds int64  `json:"age_seconds" example:"36000"`
	Freshness  string `json:"freshness"   example:"fresh"` // fresh stale
	Entries    string `json:"entries"     example:"jmnedict.xml.zst"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	checks := []ReadyCheck{h.artifactCheck(), check("pg", h.deps.PG), check("ch", h.deps.CH)}

	// the artifacts are the only hard dependency of the read API
	overall := "ok"
	for _, c := range checks {
		switch {
		case c.Status == "fail":
			overall = "fail"
		case c.Status == "unknown" && overall == "ok":
			overall = "degraded"
		}
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) artifactCheck() ReadyCheck {
	if h.deps.Artifacts == nil {
		return ReadyCheck{Name: "artifacts", Status: "fail", Error: "no artifact directory configured"}
	}
	if _, _, err := artifact.FindEntries(h.deps.Artifacts); err != nil {
		return ReadyCheck{Name: "artifacts", Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: "artifacts", Status: "ok"}
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	var mods []string
	if h.deps.Modules != nil {
		mods = h.deps.Modules()
	}
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
		Modules: mods,
	}, nil
}

// swagger:route GET /meta/dictionary Meta metaDictionary
// @Summary Metadata and freshness of the fetched dictionary
// @Tags Meta
// @Produce json
// @Success 200 {object} DictionaryResponse
// @Failure 404 {object} phttp.Envelope "no artifacts fetched yet"
// @Router /meta/dictionary [get]
func (h *handlers) dictionary(_ *http.Request) (any, error) {
	if h.deps.Artifacts == nil {
		return nil, perr.NotFoundf("no artifact directory configured")
	}
	name, _, err := artifact.FindEntries(h.deps.Artifacts)
	if err != nil {
		return nil, err
	}
	md, err := jmnedict.ReadMetadataFS(h.deps.Artifacts)
	if err != nil {
		return nil, err
	}

	now := h.deps.Now()
	a := freshness.ProbeFS(h.deps.Artifacts, name)
	return DictionaryResponse{
		EntryCount: md.EntryCount,
		FetchedAt:  md.TimeUTC.UTC().Format(time.RFC3339),
		AgeSeconds: int64(ptime.Age(a.ModTime, now) / time.Second),
		Freshness:  freshness.Check(a, now, h.deps.Freshness).String(),
		Entries:    name,
	}, nil
}
