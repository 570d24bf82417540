package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
)

// handlers serves the built-in routes.
type handlers struct {
	source   HandleSource
	searcher Searcher
	index    IndexHealth
	mode     execmode.Mode
	logger   logger.Logger
}

// store resolves the catalog behind the live connection. It writes a 503
// and returns false when there is none.
func (h *handlers) store(w http.ResponseWriter) (catalog.Store, bool) {
	conn, ok := h.source.Handle()
	if !ok {
		Error(w, http.StatusServiceUnavailable, "Database connection failed")
		return nil, false
	}

	store, err := catalog.StoreFrom(conn)
	if err != nil {
		h.logger.Error("connection cannot serve the catalog", err, nil)
		Error(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return store, true
}

// Liveness reports that the process is up. It never touches the database.
func (h *handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mode":   h.mode.String(),
	})
}

// Readiness reports whether the database connection is up. In serverless
// mode it connects on demand, the same way a gated /api request does, so a
// platform probe against a cold instance does not see a spurious 503. A
// configured vector index is probed and reported under "index"; an
// unhealthy index does not fail readiness since search falls back to the
// catalog.
func (h *handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.mode.IsServerless() {
		if _, err := h.source.EnsureConnected(r.Context()); err != nil {
			h.logger.Warn("readiness probe could not connect", err, nil)
		}
	}

	state := h.source.State()
	body := map[string]string{
		"status": "ready",
		"state":  state.String(),
		"mode":   h.mode.String(),
	}
	if h.index != nil {
		body["index"] = "ok"
		if err := h.index.HealthCheck(r.Context()); err != nil {
			h.logger.Warn("vector index unhealthy", err, nil)
			body["index"] = "unavailable"
		}
	}
	if state != connection.Connected {
		body["status"] = "unavailable"
		JSON(w, http.StatusServiceUnavailable, body)
		return
	}
	JSON(w, http.StatusOK, body)
}

// ListProducts returns the catalog, optionally filtered by ?category=.
func (h *handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w)
	if !ok {
		return
	}

	products, err := store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", err, nil)
		Error(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.EqualFold(p.Category, category) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	if products == nil {
		products = []catalog.Product{}
	}
	JSON(w, http.StatusOK, products)
}

// GetProduct returns one product by ID.
func (h *handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	product, err := store.Get(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		Error(w, http.StatusNotFound, "Product not found")
	case err != nil:
		h.logger.Error("failed to fetch product", err, map[string]interface{}{"id": id})
		Error(w, http.StatusInternalServerError, "Failed to fetch product")
	default:
		JSON(w, http.StatusOK, product)
	}
}

// Search answers ?q=&limit=&category=.
func (h *handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := recommend.Query{
		Text:     strings.TrimSpace(query.Get("q")),
		Category: strings.TrimSpace(query.Get("category")),
	}
	if q.Text == "" {
		Error(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			Error(w, http.StatusBadRequest, "Query parameter limit must be a positive integer")
			return
		}
		q.Limit = n
	}

	store, ok := h.store(w)
	if !ok {
		return
	}

	result, err := h.searcher.Search(r.Context(), store, q)
	if err != nil {
		h.logger.Error("search failed", err, map[string]interface{}{"query": q.Text})
		Error(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if result.Hits == nil {
		result.Hits = []recommend.Hit{}
	}
	JSON(w, http.StatusOK, result)
}

// notImplemented answers routes whose handler was not supplied.
func notImplemented(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotImplemented, "Not implemented")
}
