package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/internal/wishlist"
	wishlistdomain "github.com/tair/storefront-state/internal/wishlist/domain"
	"github.com/tair/storefront-state/pkg/state"
)

// WishlistHandler handles HTTP requests for the wishlist store
type WishlistHandler struct {
	store *wishlist.Store

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalItems     prometheus.Gauge
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(store *wishlist.Store) *WishlistHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_store_requests_total",
			Help: "Total number of requests to the wishlist store",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wishlist_store_request_duration_seconds",
			Help:    "Duration of wishlist store requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wishlist_store_total_items",
			Help: "Number of products currently wishlisted",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalItems)

	state.Subscribe(store.Core(), func(s wishlistdomain.Snapshot) int {
		return s.TotalItems
	}, func(total int) {
		totalItems.Set(float64(total))
	})

	return &WishlistHandler{
		store:          store,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		totalItems:     totalItems,
	}
}

// Store returns the wishlist store behind the handler.
func (h *WishlistHandler) Store() *wishlist.Store {
	return h.store
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type wishlistPayload struct {
	Hydrated   bool              `json:"hydrated"`
	Items      []catalog.Product `json:"items"`
	TotalItems int               `json:"totalItems"`
}

func (h *WishlistHandler) ensureHydrated(r *http.Request) {
	if !h.store.Hydrated() {
		h.store.Rehydrate(r.Context())
	}
}

// GetWishlist handles GET /api/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)

	snapshot := h.store.Snapshot()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: wishlistPayload{
			Hydrated:   h.store.Hydrated(),
			Items:      snapshot.Items,
			TotalItems: snapshot.TotalItems,
		},
	})
}

// AddItem handles POST /api/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)

	if !h.store.AddItem(product) {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Product is already in the wishlist",
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product added to wishlist",
		Data: map[string]interface{}{
			"totalItems": h.store.TotalItems(),
		},
	})
}

// ToggleItem handles POST /api/wishlist/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)
	inWishlist := h.store.Toggle(product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"inWishlist": inWishlist,
			"totalItems": h.store.TotalItems(),
		},
	})
}

// RemoveItem handles DELETE /api/wishlist/items/{id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
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
		Message: "Product removed from wishlist",
	})
}

// ClearWishlist handles DELETE /api/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)
	h.store.Clear()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Wishlist cleared",
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
func (h *WishlistHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// RegisterRoutes registers all wishlist routes
func (h *WishlistHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/wishlist", h.metricsMiddleware("/api/wishlist", h.GetWishlist)).Methods("GET")
	router.HandleFunc("/api/wishlist", h.metricsMiddleware("/api/wishlist", h.ClearWishlist)).Methods("DELETE")
	router.HandleFunc("/api/wishlist/items", h.metricsMiddleware("/api/wishlist/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/wishlist/items/{id}", h.metricsMiddleware("/api/wishlist/items/{id}", h.RemoveItem)).Methods("DELETE")
	router.HandleFunc("/api/wishlist/toggle", h.metricsMiddleware("/api/wishlist/toggle", h.ToggleItem)).Methods("POST")
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
