package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"jmnedict/internal/adapters/artifact/artifacttest"
	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/logger"
	phttp "jmnedict/internal/platform/net/http"
)

func newAPI(t *testing.T, swagger bool) *httptest.Server {
	t.Helper()
	srv := phttp.NewServer(config.New().Prefix("TEST_API_"))
	Mount(srv.Router(), Options{
		Config:        config.New(),
		Logger:        logger.Nop(),
		ArtifactDir:   artifacttest.Sample(t, 9),
		EnableSwagger: swagger,
	})
	hs := httptest.NewServer(srv.Router().Mux())
	t.Cleanup(hs.Close)
	return hs
}

func TestMountServesModules(t *testing.T) {
	hs := newAPI(t, false)

	res, err := http.Get(hs.URL + "/api/v1/entries?limit=4")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var env struct {
		RequestID string `json:"request_id"`
		Page      struct {
			Count int  `json:"count"`
			More  bool `json:"more"`
		} `json:"page"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Page.Count != 4 || !env.Page.More || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}

	for _, p := range []string{"/api/v1/meta/health", "/api/v1/meta/dictionary", "/api/v1/entries/5000001"} {
		r, err := http.Get(hs.URL + p)
		if err != nil {
			t.Fatal(err)
		}
		r.Body.Close()
		if r.StatusCode != 200 {
			t.Fatalf("%s: %d", p, r.StatusCode)
		}
	}

	r, err := http.Get(hs.URL + "/api/docs/doc.json")
	if err != nil {
		t.Fatal(err)
	}
	r.Body.Close()
	if r.StatusCode != 404 {
		t.Fatalf("docs served while disabled: %d", r.StatusCode)
	}
}

func TestMountReturnsRegistry(t *testing.T) {
	srv := phttp.NewServer(config.New().Prefix("TEST_API_"))
	reg := Mount(srv.Router(), Options{Config: config.New(), Logger: logger.Nop(), ArtifactDir: t.TempDir()})
	if got := reg.Names(); !slices.Equal(got, []string{"meta", "entries"}) {
		t.Fatalf("modules = %v", got)
	}
	routes := phttp.Routes(srv.Router())
	for _, want := range []string{"GET /api/v1/entries/{seq}", "GET /api/v1/meta/dictionary"} {
		if !slices.Contains(routes, want) {
			t.Fatalf("route %q missing from %v", want, routes)
		}
	}
}

func TestSwaggerDocument(t *testing.T) {
	hs := newAPI(t, true)
	res, err := http.Get(hs.URL + "/api/docs/doc.json")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var doc struct {
		OpenAPI string                 `json:"openapi"`
		Servers []struct{ URL string } `json:"servers"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	// paths are only filled in -tags swag builds
	if res.StatusCode != 200 || doc.OpenAPI != "3.0.3" || len(doc.Servers) != 1 || doc.Servers[0].URL != Base {
		t.Fatalf("doc = %+v", doc)
	}
}
