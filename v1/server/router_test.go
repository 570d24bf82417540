package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
)

// fakeSource is connected when handle is set. EnsureConnected adopts
// connectTo, if any.
type fakeSource struct {
	mu        sync.Mutex
	handle    connection.Handle
	connectTo connection.Handle
	connects  int
}

func (f *fakeSource) Handle() (connection.Handle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle, f.handle != nil
}

func (f *fakeSource) State() connection.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handle == nil {
		return connection.Failed
	}
	return connection.Connected
}

func (f *fakeSource) EnsureConnected(context.Context) (connection.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.handle == nil && f.connectTo != nil {
		f.handle = f.connectTo
	}
	if f.handle == nil {
		return nil, &connection.ConnectionError{Attempt: f.connects, Err: errors.New("refused")}
	}
	return f.handle, nil
}

type fakeIndexHealth struct{ err error }

func (f fakeIndexHealth) HealthCheck(context.Context) error { return f.err }

type requestLog struct {
	mu     sync.Mutex
	routes []string
}

func (l *requestLog) RecordRequest(method, route string, status int, _ time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.routes = append(l.routes, method+" "+route)
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Trail Running Shoes", Category: "footwear", Price: 120, Tags: []string{"running"}},
		{ID: "p2", Name: "Rain Jacket", Category: "apparel", Price: 90, Tags: []string{"waterproof"}},
		{ID: "p3", Name: "Road Running Shoes", Category: "footwear", Price: 110},
	}
}

func newTestRouter(t *testing.T, d RouterDeps) http.Handler {
	t.Helper()
	log := logger.NewNopLogger()
	if d.Source == nil {
		d.Source = &fakeSource{handle: catalog.MemoryHandle{Store: catalog.NewMemoryStore(testProducts()...)}}
	}
	if d.Searcher == nil {
		d.Searcher = recommend.NewSearcher(nil, nil, recommend.Config{}, log)
	}
	if d.Mode == "" {
		d.Mode = execmode.Traditional
	}
	d.Logger = log
	return NewRouter(d)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestRootRedirectsToDocs(t *testing.T) {
	rr := do(newTestRouter(t, RouterDeps{}), http.MethodGet, "/")
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/api-docs", rr.Header().Get("Location"))
}

func TestDocsRoutes(t *testing.T) {
	h := newTestRouter(t, RouterDeps{})

	rr := do(h, http.MethodGet, "/api-docs")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swagger-ui")
	assert.Contains(t, rr.Body.String(), "/api-docs/swagger.json")

	rr = do(h, http.MethodGet, "/api-docs/swagger.json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	for _, p := range []string{"/api/products", "/api/search", "/api/checkout", "/api/orders", "/api/auth"} {
		assert.Contains(t, doc.Paths, p)
	}
}

func TestHealthRoutes(t *testing.T) {
	up := newTestRouter(t, RouterDeps{})
	down := newTestRouter(t, RouterDeps{Source: &fakeSource{}})

	assert.Equal(t, http.StatusOK, do(down, http.MethodGet, "/healthz").Code)

	rr := do(up, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","state":"connected","mode":"traditional"}`, rr.Body.String())

	rr = do(down, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"state":"failed"`)
}

func TestReadinessConnectsInServerlessMode(t *testing.T) {
	memory := catalog.MemoryHandle{Store: catalog.NewMemoryStore(testProducts()...)}

	cold := &fakeSource{connectTo: memory}
	h := newTestRouter(t, RouterDeps{Source: cold, Mode: execmode.Serverless})
	rr := do(h, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","state":"connected","mode":"serverless"}`, rr.Body.String())
	assert.Equal(t, 1, cold.connects)

	unreachable := &fakeSource{}
	h = newTestRouter(t, RouterDeps{Source: unreachable, Mode: execmode.Serverless})
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/readyz").Code)
	assert.Equal(t, 1, unreachable.connects)

	// Traditional readiness only reads the state.
	idle := &fakeSource{connectTo: memory}
	h = newTestRouter(t, RouterDeps{Source: idle})
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/readyz").Code)
	assert.Zero(t, idle.connects)
}

func TestReadinessReportsIndexHealth(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Index: fakeIndexHealth{}})
	rr := do(h, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","state":"connected","mode":"traditional","index":"ok"}`, rr.Body.String())

	h = newTestRouter(t, RouterDeps{Index: fakeIndexHealth{err: errors.New("qdrant down")}})
	rr = do(h, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"index":"unavailable"`)
}

func TestProductRoutes(t *testing.T) {
	h := newTestRouter(t, RouterDeps{})

	rr := do(h, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, rr.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Len(t, products, 3)

	rr = do(h, http.MethodGet, "/api/products?category=FOOTWEAR")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	rr = do(h, http.MethodGet, "/api/products/p2")
	require.Equal(t, http.StatusOK, rr.Code)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Rain Jacket", p.Name)

	rr = do(h, http.MethodGet, "/api/products/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rr.Body.String())
}

func TestProductRoutesWithoutConnection(t *testing.T) {
	h := newTestRouter(t, RouterDeps{Source: &fakeSource{}})

	rr := do(h, http.MethodGet, "/api/products")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"Database connection failed"}`, rr.Body.String())
}

func TestSearchRoute(t *testing.T) {
	h := newTestRouter(t, RouterDeps{})

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing query", "/api/search", http.StatusBadRequest},
		{"bad limit", "/api/search?q=shoes&limit=abc", http.StatusBadRequest},
		{"zero limit", "/api/search?q=shoes&limit=0", http.StatusBadRequest},
		{"ok", "/api/search?q=running+shoes&limit=5", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(h, http.MethodGet, tt.target).Code)
		})
	}

	rr := do(h, http.MethodGet, "/api/search?q=running+shoes")
	var result recommend.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, recommend.SourceKeyword, result.Source)
	require.Len(t, result.Hits, 2)

	rr = do(h, http.MethodGet, "/api/search?q=kayak")
	assert.JSONEq(t, `{"hits":[],"source":"keyword"}`, rr.Body.String())
}

func TestInjectableRoutes(t *testing.T) {
	checkout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusCreated, map[string]string{"path": r.URL.Path})
	})
	h := newTestRouter(t, RouterDeps{Checkout: checkout})

	rr := do(h, http.MethodPost, "/api/checkout")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"path":"/api/checkout"}`, rr.Body.String())

	for _, target := range []string{"/api/orders", "/api/auth/login"} {
		rr = do(h, http.MethodPost, target)
		assert.Equal(t, http.StatusNotImplemented, rr.Code, target)
		assert.JSONEq(t, `{"error":"Not implemented"}`, rr.Body.String())
	}
}

func TestGateWrapsOnlyAPIRoutes(t *testing.T) {
	closed := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Error(w, http.StatusServiceUnavailable, "Database connection failed")
		})
	}
	h := newTestRouter(t, RouterDeps{Gate: closed})

	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/api/products").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/api/search?q=x").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api-docs").Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	h := newTestRouter(t, RouterDeps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestsAreRecordedByRoutePattern(t *testing.T) {
	rec := &requestLog{}
	h := newTestRouter(t, RouterDeps{Metrics: rec})

	do(h, http.MethodGet, "/api/products/p1")
	do(h, http.MethodGet, "/nowhere")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"GET /api/products/{id}", "GET unmatched"}, rec.routes)
}

func TestMetricsRouteIsOptional(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(newTestRouter(t, RouterDeps{}), http.MethodGet, "/metrics").Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP x\n"))
	})
	rr := do(newTestRouter(t, RouterDeps{MetricsHandler: metrics}), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
}
