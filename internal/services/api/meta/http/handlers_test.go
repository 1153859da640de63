package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "tomotrip/internal/platform/net/http"
	"tomotrip/internal/platform/store"
	guidesdom "tomotrip/internal/services/api/guides/domain"

	"github.com/go-chi/chi/v5"
)

type fakeChecker map[string]error

func (f fakeChecker) Check(_ stdctx.Context, name string) error {
	if err, ok := f[name]; ok {
		return err
	}
	return store.ErrDisabled
}

type fakeCatalog guidesdom.CatalogInfo

func (f fakeCatalog) Catalog() guidesdom.CatalogInfo { return guidesdom.CatalogInfo(f) }

func serve(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	if code := serveStatus(t, d, path, out); code != stdhttp.StatusOK {
		t.Fatalf("GET %s = %d", path, code)
	}
}

// serveStatus decodes the envelope data into out and returns the status code
func serveStatus(t *testing.T, d Deps, path string, out any) int {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/meta", func(r phttp.Router) { Register(r, d) })

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode %s: %v", env.Data, err)
	}
	return rec.Code
}

func statuses(r ReadyResponse) map[string]string {
	out := map[string]string{}
	for _, c := range r.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestReady(t *testing.T) {
	t.Parallel()

	loaded := fakeCatalog{Loaded: true, Size: 3}
	cases := []struct {
		name    string
		deps    Deps
		overall string
		want    map[string]string
	}{
		{
			name:    "nothing configured",
			deps:    Deps{},
			overall: "ok",
			want:    map[string]string{"pg": "skipped", "ch": "skipped", "redis": "skipped", "catalog": "skipped"},
		},
		{
			name:    "all healthy",
			deps:    Deps{Store: fakeChecker{"pg": nil, "ch": nil, "redis": nil}, Catalog: loaded},
			overall: "ok",
			want:    map[string]string{"pg": "ok", "ch": "ok", "redis": "ok", "catalog": "ok"},
		},
		{
			name:    "redis down",
			deps:    Deps{Store: fakeChecker{"pg": nil, "redis": errors.New("refused")}, Catalog: loaded},
			overall: "fail",
			want:    map[string]string{"pg": "ok", "ch": "skipped", "redis": "fail", "catalog": "ok"},
		},
		{
			name:    "catalog not loaded",
			deps:    Deps{Catalog: fakeCatalog{}},
			overall: "fail",
			want:    map[string]string{"pg": "skipped", "ch": "skipped", "redis": "skipped", "catalog": "fail"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got ReadyResponse
			code := serveStatus(t, tc.deps, "/meta/ready", &got)
			wantCode := stdhttp.StatusOK
			if tc.overall == "fail" {
				wantCode = stdhttp.StatusServiceUnavailable
			}
			if code != wantCode {
				t.Fatalf("code = %d want %d", code, wantCode)
			}
			if got.Status != tc.overall {
				t.Fatalf("status = %q want %q", got.Status, tc.overall)
			}
			st := statuses(got)
			for k, v := range tc.want {
				if st[k] != v {
					t.Fatalf("%s = %q want %q (all %v)", k, st[k], v, st)
				}
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	var got guidesdom.CatalogInfo
	serve(t, Deps{Catalog: fakeCatalog{Loaded: true, Size: 7, Source: "pg+redis"}}, "/meta/catalog", &got)
	if !got.Loaded || got.Size != 7 || got.Source != "pg+redis" {
		t.Fatalf("catalog = %+v", got)
	}

	got = guidesdom.CatalogInfo{}
	serve(t, Deps{}, "/meta/catalog", &got)
	if got.Loaded {
		t.Fatal("no catalog port should report not loaded")
	}
}

func TestHealthServiceVersion(t *testing.T) {
	t.Parallel()
	started := time.Now().Add(-time.Minute)
	d := Deps{ServiceName: "tomotrip-api", StartedAt: started}

	var h HealthResponse
	serve(t, d, "/meta/health", &h)
	if !h.OK || h.Service != "tomotrip-api" {
		t.Fatalf("health = %+v", h)
	}

	var s ServiceResponse
	serve(t, d, "/meta/service", &s)
	if s.Uptime < 59 {
		t.Fatalf("uptime = %d", s.Uptime)
	}

	var v struct {
		Service string `json:"service"`
	}
	serve(t, d, "/meta/version", &v)
	if v.Service != "tomotrip-api" {
		t.Fatalf("version service = %q", v.Service)
	}
}

type hangingChecker struct{}

func (hangingChecker) Check(ctx stdctx.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReady_TimeoutFailsProbes(t *testing.T) {
	t.Parallel()
	var got ReadyResponse
	code := serveStatus(t, Deps{Store: hangingChecker{}, Backends: []string{"pg", "redis"}, ReadyTimeout: 20 * time.Millisecond}, "/meta/ready", &got)
	if code != stdhttp.StatusServiceUnavailable || got.Status != StatusFail {
		t.Fatalf("code = %d status = %q", code, got.Status)
	}
	for _, c := range got.Checks[:2] {
		if c.Status != StatusFail || c.Error == "" {
			t.Fatalf("check = %+v", c)
		}
	}
}
