package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jmnedict/internal/adapters/artifact/artifacttest"
	"jmnedict/internal/core/freshness"
	phttp "jmnedict/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getData(t *testing.T, url string, out any) int {
	t.Helper()
	res, err := stdhttp.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatal(err)
		}
	}
	return res.StatusCode
}

func TestDictionaryReportsMetadataAndFreshness(t *testing.T) {
	dir := artifacttest.Sample(t, 12)
	// the artifacts were just written, so age is measured from the file mtime
	now := time.Now().Add(2 * time.Hour)
	srv := serve(t, Deps{ServiceName: "jmnedict-api", Artifacts: os.DirFS(dir), Freshness: freshness.DefaultThreshold, Now: func() time.Time { return now }})

	var got DictionaryResponse
	if code := getData(t, srv.URL+"/dictionary", &got); code != 200 {
		t.Fatalf("code %d", code)
	}
	if got.EntryCount != 12 || got.Freshness != "fresh" || got.Entries != "jmnedict.xml.zst" {
		t.Fatalf("dictionary = %+v", got)
	}
	if got.FetchedAt != artifacttest.FixedNow.Format(time.RFC3339) || got.AgeSeconds < 7000 {
		t.Fatalf("dictionary = %+v", got)
	}

	later := now.Add(48 * time.Hour)
	srv = serve(t, Deps{Artifacts: os.DirFS(dir), Freshness: freshness.DefaultThreshold, Now: func() time.Time { return later }})
	if getData(t, srv.URL+"/dictionary", &got); got.Freshness != "stale" {
		t.Fatalf("two days later = %+v", got)
	}

	srv = serve(t, Deps{Artifacts: os.DirFS(dir), Now: func() time.Time { return now }})
	if getData(t, srv.URL+"/dictionary", &got); got.Freshness != "stale" {
		t.Fatalf("zero threshold = %+v", got)
	}
}

func TestDictionaryMissing(t *testing.T) {
	srv := serve(t, Deps{Artifacts: os.DirFS(t.TempDir())})
	if code := getData(t, srv.URL+"/dictionary", nil); code != 404 {
		t.Fatalf("code %d", code)
	}
	srv = serve(t, Deps{})
	if code := getData(t, srv.URL+"/dictionary", nil); code != 404 {
		t.Fatalf("no dir code %d", code)
	}
}

func TestReady(t *testing.T) {
	dir := artifacttest.Sample(t, 1)
	cases := []struct {
		name string
		d    Deps
		want string
	}{
		{"artifacts only", Deps{Artifacts: os.DirFS(dir)}, "ok"},
		{"pg up", Deps{Artifacts: os.DirFS(dir), PG: pinger{}}, "ok"},
		{"pg down", Deps{Artifacts: os.DirFS(dir), PG: pinger{err: errors.New("refused")}}, "fail"},
		{"not pingable", Deps{Artifacts: os.DirFS(dir), CH: struct{}{}}, "degraded"},
		{"no artifacts", Deps{Artifacts: os.DirFS(t.TempDir())}, "fail"},
	}
	for _, tc := range cases {
		var got ReadyResponse
		getData(t, serve(t, tc.d).URL+"/ready", &got)
		if got.Status != tc.want || len(got.Checks) != 3 || got.Checks[0].Name != "artifacts" {
			t.Fatalf("%s: %+v", tc.name, got)
		}
	}
}

func TestVersionAndService(t *testing.T) {
	started := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	srv := serve(t, Deps{
		ServiceName: "jmnedict-api",
		StartedAt:   started,
		Modules:     func() []string { return []string{"meta", "entries"} },
		Now:         func() time.Time { return started.Add(90 * time.Second) },
	})

	var v struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	getData(t, srv.URL+"/version", &v)
	if v.Service != "jmnedict-api" || v.Version == "" {
		t.Fatalf("version = %+v", v)
	}

	var s ServiceResponse
	getData(t, srv.URL+"/service", &s)
	if s.Uptime != 90 || len(s.Modules) != 2 || s.Modules[1] != "entries" {
		t.Fatalf("service = %+v", s)
	}

	var h HealthResponse
	getData(t, srv.URL+"/health", &h)
	if !h.OK || h.Service != "jmnedict-api" {
		t.Fatalf("health = %+v", h)
	}
}
