package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// RouterDeps are the collaborators of NewRouter. Checkout, Orders and Auth
// are mounted as given; a nil handler answers 501.
type RouterDeps struct {
	// Gate wraps every /api route. It is the lifecycle strategy's middleware.
	Gate     func(http.Handler) http.Handler
	Source   HandleSource
	Searcher Searcher
	Mode     execmode.Mode
	Logger   logger.Logger

	// Optional.
	Index          IndexHealth
	Metrics        RequestRecorder
	MetricsHandler http.Handler
	Tracer         *tracer.Tracer
	RequestTimeout time.Duration

	Checkout http.Handler
	Orders   http.Handler
	Auth     http.Handler
}

// NewRouter builds the chi router.
//
// Routes:
//   - GET /                        redirect to /api-docs
//   - GET /api-docs                Swagger UI
//   - GET /api-docs/swagger.json   OpenAPI document
//   - GET /healthz, GET /readyz    liveness and readiness
//   - GET /metrics                 prometheus, when MetricsHandler is set
//   - /api/products, /api/search, /api/checkout, /api/orders, /api/auth
//
// Only the /api group passes through Gate.
func NewRouter(d RouterDeps) http.Handler {
	h := &handlers{source: d.Source, searcher: d.Searcher, index: d.Index, mode: d.Mode, logger: d.Logger}

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.Tracer != nil {
		r.Use(d.Tracer.Middleware)
	}
	r.Use(requestLogger(d.Logger, d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, docsPath, http.StatusTemporaryRedirect)
	})
	r.Get(docsPath, serveDocsUI)
	r.Get(swaggerPath, h.serveSwaggerJSON)

	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if d.Gate != nil {
			r.Use(d.Gate)
		}

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/search", h.Search)

		r.Mount("/checkout", orNotImplemented(d.Checkout))
		r.Mount("/orders", orNotImplemented(d.Orders))
		r.Mount("/auth", orNotImplemented(d.Auth))
	})

	return r
}

func orNotImplemented(h http.Handler) http.Handler {
	if h == nil {
		return http.HandlerFunc(notImplemented)
	}
	return h
}

// requestLogger logs each request and reports it to rec when set.
func requestLogger(log logger.Logger, rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			log.Debug("request started", nil, map[string]interface{}{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.Info("request completed", nil, map[string]interface{}{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})

			if rec != nil {
				rec.RecordRequest(r.Method, routePattern(r), status, start)
			}
		})
	}
}

// routePattern keeps metric label cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
