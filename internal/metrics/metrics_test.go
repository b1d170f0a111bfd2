package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/settlements/internal/core"
)

var _ core.Observer = (*Metrics)(nil)

func TestDatasetLoaded(t *testing.T) {
	m := New()

	m.DatasetLoaded(core.LoadReport{Source: "embedded", Fallback: true}, 28, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.datasetRecords); got != 28 {
		t.Errorf("dataset_records = %v, want 28", got)
	}
	if got := testutil.ToFloat64(m.fallbackActive); got != 1 {
		t.Errorf("dataset_fallback_active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.datasetLoads.WithLabelValues("embedded", "ok")); got != 1 {
		t.Errorf("dataset_loads_total{embedded,ok} = %v, want 1", got)
	}

	m.DatasetLoaded(core.LoadReport{Source: "file"}, 10, time.Millisecond)
	if got := testutil.ToFloat64(m.fallbackActive); got != 0 {
		t.Errorf("dataset_fallback_active after primary load = %v, want 0", got)
	}
}

func TestDatasetLoadFailed(t *testing.T) {
	m := New()
	m.DatasetLoadFailed("http", errors.New("no such host"))
	m.DatasetLoadFailed("http", errors.New("no such host"))

	if got := testutil.ToFloat64(m.datasetLoads.WithLabelValues("http", "error")); got != 2 {
		t.Errorf("dataset_loads_total{http,error} = %v, want 2", got)
	}
}

func TestQueryServed(t *testing.T) {
	m := New()
	m.QueryServed(time.Microsecond, 12)
	m.QueryServed(time.Microsecond, 0)

	if got := testutil.ToFloat64(m.queries); got != 2 {
		t.Errorf("queries_total = %v, want 2", got)
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/records", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for _, path := range []string{"/api/records", "/api/records?q=x", "/static/a.css", "/static/b.css"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/records", "200")); got != 2 {
		t.Errorf("http_requests_total{/api/records,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/static/*", "404")); got != 2 {
		t.Errorf("http_requests_total{/static/*,404} = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.QueryServed(time.Millisecond, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "settlements_queries_total 1") {
		t.Errorf("exposition missing queries_total:\n%s", body)
	}
}
