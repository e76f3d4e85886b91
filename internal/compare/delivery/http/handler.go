package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/internal/compare"
	comparedomain "github.com/tair/storefront-state/internal/compare/domain"
	"github.com/tair/storefront-state/pkg/state"
)

// CompareHandler handles HTTP requests for the compare store
type CompareHandler struct {
	store *compare.Store

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	itemCount      prometheus.Gauge
}

// NewCompareHandler creates a new compare handler
func NewCompareHandler(store *compare.Store) *CompareHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compare_store_requests_total",
			Help: "Total number of requests to the compare store",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compare_store_request_duration_seconds",
			Help:    "Duration of compare store requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	itemCount := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "compare_store_item_count",
			Help: "Number of products currently in the comparison list",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(itemCount)

	state.Subscribe(store.Core(), func(s comparedomain.Snapshot) int {
		return len(s.Items)
	}, func(count int) {
		itemCount.Set(float64(count))
	})

	return &CompareHandler{
		store:          store,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		itemCount:      itemCount,
	}
}

// Store returns the compare store behind the handler.
func (h *CompareHandler) Store() *compare.Store {
	return h.store
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type comparePayload struct {
	Hydrated   bool              `json:"hydrated"`
	Items      []catalog.Product `json:"items"`
	CanAddMore bool              `json:"canAddMore"`
	MaxItems   int               `json:"maxItems"`
}

func (h *CompareHandler) ensureHydrated(r *http.Request) {
	if !h.store.Hydrated() {
		h.store.Rehydrate(r.Context())
	}
}

// GetCompareList handles GET /api/compare
func (h *CompareHandler) GetCompareList(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: comparePayload{
			Hydrated:   h.store.Hydrated(),
			Items:      h.store.Items(),
			CanAddMore: h.store.CanAddMore(),
			MaxItems:   comparedomain.MaxItems,
		},
	})
}

// AddItem handles POST /api/compare/items
func (h *CompareHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)

	if !h.store.AddItem(product) {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Comparison list is full or already contains this product",
			Data: map[string]interface{}{
				"canAddMore": h.store.CanAddMore(),
			},
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product added to comparison",
		Data: map[string]interface{}{
			"canAddMore": h.store.CanAddMore(),
		},
	})
}

// ToggleItem handles POST /api/compare/toggle
func (h *CompareHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)
	inCompare := h.store.Toggle(product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"inCompare":  inCompare,
			"canAddMore": h.store.CanAddMore(),
		},
	})
}

// RemoveItem handles DELETE /api/compare/items/{id}
func (h *CompareHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	h.ensureHydrated(r)
	h.store.RemoveItem(uint(id))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product removed from comparison",
	})
}

// ClearCompareList handles DELETE /api/compare
func (h *CompareHandler) ClearCompareList(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)
	h.store.Clear()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Comparison list cleared",
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CompareHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// RegisterRoutes registers all compare routes
func (h *CompareHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/compare", h.metricsMiddleware("/api/compare", h.GetCompareList)).Methods("GET")
	router.HandleFunc("/api/compare", h.metricsMiddleware("/api/compare", h.ClearCompareList)).Methods("DELETE")
	router.HandleFunc("/api/compare/items", h.metricsMiddleware("/api/compare/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/compare/items/{id}", h.metricsMiddleware("/api/compare/items/{id}", h.RemoveItem)).Methods("DELETE")
	router.HandleFunc("/api/compare/toggle", h.metricsMiddleware("/api/compare/toggle", h.ToggleItem)).Methods("POST")
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	var req struct {
		Product catalog.Product `json:"product"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return catalog.Product{}, false
	}

	if req.Product.ID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Product ID is required",
		})
		return catalog.Product{}, false
	}
	return req.Product, true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
