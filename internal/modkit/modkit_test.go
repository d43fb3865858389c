package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jmnedict/internal/modkit/httpkit"
	phttp "jmnedict/internal/platform/net/http"
	kit "jmnedict/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type fakePorts interface{ Answer() int }

type answer int

func (a answer) Answer() int { return int(a) }

type fakeModule struct {
	b Built
}

func newFake(opts ...Option) *fakeModule {
	return &fakeModule{b: Build(append([]Option{WithName("fake"), WithPrefix("/fake")}, opts...)...)}
}

func (m *fakeModule) MountRoutes(r httpkit.Router) {
	Mount(r, m.b, func(rr httpkit.Router) {
		httpkit.Get(rr, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
}
func (m *fakeModule) Ports() any     { return m.b.Ports }
func (m *fakeModule) Name() string   { return m.b.Name }
func (m *fakeModule) Prefix() string { return m.b.Prefix }

func TestBuildLaterOptionsWin(t *testing.T) {
	b := Build(WithName("a"), WithPrefix("/a"), WithName("b"), WithPorts[fakePorts](answer(3)))
	if b.Name != "b" || b.Prefix != "/a" || b.Ports.(fakePorts).Answer() != 3 {
		t.Fatalf("built = %+v", b)
	}
}

func TestMountAppliesMiddlewareAndRegister(t *testing.T) {
	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "fake")
			next.ServeHTTP(w, r)
		})
	}
	m := newFake(WithMiddlewares(tagged), WithRegister(func(r httpkit.Router) {
		httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return 1, nil })
	}))
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	for _, p := range []string{"/fake/ping", "/fake/extra"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		if rr.Code != 200 || rr.Header().Get("X-Module") != "fake" {
			t.Fatalf("%s: %d %v", p, rr.Code, rr.Header())
		}
	}
}

func TestRegistry(t *testing.T) {
	g := NewRegistry()
	g.Add(newFake(WithPorts[fakePorts](answer(42))))
	g.Add(newFake(WithName("other"), WithPrefix("/other")))

	if got := g.Names(); len(got) != 2 || got[0] != "fake" || got[1] != "other" {
		t.Fatalf("names = %v", got)
	}
	if p, ok := PortsAs[fakePorts](g, "fake"); !ok || p.Answer() != 42 {
		t.Fatalf("ports = %v %v", p, ok)
	}
	if _, ok := PortsAs[fakePorts](g, "other"); ok {
		t.Fatal("module without ports matched")
	}
	if _, ok := PortsAs[fakePorts](g, "missing"); ok {
		t.Fatal("missing module matched")
	}
	n := 0
	g.Each(func(Module) { n++ })
	if n != 2 {
		t.Fatalf("each visited %d", n)
	}

	kit.MustPanic(t, func() { g.Add(newFake()) })
	kit.MustPanic(t, func() { g.Add(newFake(WithName(" "))) })
	kit.MustPanic(t, func() { g.Add(newFake(WithName("rootless"), WithPrefix("/"))) })
	kit.MustPanic(t, func() { MustPortsAs[fakePorts](g, "other") })
}
