package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	modkit "tomotrip/internal/modkit"
	"tomotrip/internal/modkit/httpkit"
	phttp "tomotrip/internal/platform/net/http"
	"tomotrip/internal/platform/testkit"
	"tomotrip/internal/services/api/guides/repo"
	guidessvc "tomotrip/internal/services/api/guides/service"

	"github.com/go-chi/chi/v5"
)

func newSvc(t *testing.T) *guidessvc.Svc {
	t.Helper()
	s := guidessvc.New(repo.Static{
		{ID: "g1", Name: "Aiko", Location: "Tokyo", Languages: []string{"English"}, HourlyFee: 5000},
	}, nil, guidessvc.Options{})
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	m := New(modkit.Deps{}, newSvc(t))
	if m.Name() != "guides" || m.Prefix() != "/guides" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}
	if len(m.Middlewares()) != 0 {
		t.Fatal("no middlewares expected by default")
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()
	extra := false
	m := New(modkit.Deps{}, newSvc(t),
		modkit.WithPrefix("catalog/"),
		modkit.WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/ping", func(*http.Request) (any, error) { extra = true; return "pong", nil })
		}),
	)
	if m.Prefix() != "/catalog" {
		t.Fatalf("prefix = %q", m.Prefix())
	}
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/ping", nil))
	if rec.Code != http.StatusOK || !extra {
		t.Fatalf("extra route: %d %v", rec.Code, extra)
	}
}

func TestNew_PanicsWithoutService(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}, nil) })
}

func TestPorts_ExposeCatalog(t *testing.T) {
	t.Parallel()
	m := New(modkit.Deps{}, newSvc(t))
	cat := modkit.MustPortsOf[CatalogPort](m)
	if info := cat.Catalog(); !info.Loaded || info.Size != 1 {
		t.Fatalf("catalog = %+v", info)
	}
}

func TestMountRoutes_ServesGuides(t *testing.T) {
	t.Parallel()
	mux := chi.NewRouter()
	New(modkit.Deps{}, newSvc(t)).MountRoutes(phttp.AdaptChi(mux))

	for _, path := range []string{"/guides", "/guides/reset", "/guides/g1"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
	}
}
