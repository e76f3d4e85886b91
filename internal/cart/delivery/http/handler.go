package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront-state/internal/cart"
	cartdomain "github.com/tair/storefront-state/internal/cart/domain"
	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/pkg/state"
)

// CartHandler handles HTTP requests for the cart store
type CartHandler struct {
	store *cart.Store

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalItems     prometheus.Gauge
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *cart.Store) *CartHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_store_requests_total",
			Help: "Total number of requests to the cart store",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cart_store_request_duration_seconds",
			Help:    "Duration of cart store requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_store_total_items",
			Help: "Summed quantity of all items currently in the cart",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalItems)

	// The gauge tracks the aggregate through the store's own subscription
	// layer, so it only moves when the total actually changes.
	state.Subscribe(store.Core(), func(s cartdomain.Snapshot) int {
		return s.TotalItems
	}, func(total int) {
		totalItems.Set(float64(total))
	})

	return &CartHandler{
		store:          store,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		totalItems:     totalItems,
	}
}

// Store returns the cart store behind the handler, for lifecycle wiring and
// additional subscriptions.
func (h *CartHandler) Store() *cart.Store {
	return h.store
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type cartPayload struct {
	Hydrated   bool              `json:"hydrated"`
	Items      []cartdomain.Item `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// ensureHydrated restores persisted state before the first read or write,
// mirroring the restore-on-first-consumer contract. Rehydrate is idempotent,
// so racing requests are harmless.
func (h *CartHandler) ensureHydrated(r *http.Request) {
	if !h.store.Hydrated() {
		h.store.Rehydrate(r.Context())
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)

	snapshot := h.store.Snapshot()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: cartPayload{
			Hydrated:   h.store.Hydrated(),
			Items:      snapshot.Items,
			TotalItems: snapshot.TotalItems,
			TotalPrice: snapshot.TotalPrice,
		},
	})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product  catalog.Product `json:"product"`
		Quantity int             `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if req.Product.ID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Product ID is required",
		})
		return
	}

	h.ensureHydrated(r)
	h.store.AddItem(req.Product, req.Quantity)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item added to cart",
		Data: map[string]interface{}{
			"quantity":   h.store.Quantity(req.Product.ID),
			"totalItems": h.store.TotalItems(),
		},
	})
}

// GetItem handles GET /api/cart/items/{id}
func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)

	item, found := h.store.Item(productID)
	if !found {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Item not in cart",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// UpdateQuantity handles PATCH /api/cart/items/{id}/quantity
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	h.ensureHydrated(r)
	h.store.UpdateQuantity(productID, req.Quantity)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Quantity updated",
		Data: map[string]interface{}{
			"quantity": h.store.Quantity(productID),
		},
	})
}

// IncrementItem handles POST /api/cart/items/{id}/increment
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)
	h.store.IncreaseQuantity(productID)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"quantity": h.store.Quantity(productID),
		},
	})
}

// DecrementItem handles POST /api/cart/items/{id}/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)
	h.store.DecreaseQuantity(productID)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"quantity": h.store.Quantity(productID),
		},
	})
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	h.ensureHydrated(r)
	h.store.RemoveItem(productID)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item removed from cart",
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.ensureHydrated(r)
	h.store.Clear()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared",
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
func (h *CartHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.GetCart)).Methods("GET")
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.ClearCart)).Methods("DELETE")
	router.HandleFunc("/api/cart/items", h.metricsMiddleware("/api/cart/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}", h.metricsMiddleware("/api/cart/items/{id}", h.GetItem)).Methods("GET")
	router.HandleFunc("/api/cart/items/{id}", h.metricsMiddleware("/api/cart/items/{id}", h.RemoveItem)).Methods("DELETE")
	router.HandleFunc("/api/cart/items/{id}/quantity", h.metricsMiddleware("/api/cart/items/{id}/quantity", h.UpdateQuantity)).Methods("PATCH")
	router.HandleFunc("/api/cart/items/{id}/increment", h.metricsMiddleware("/api/cart/items/{id}/increment", h.IncrementItem)).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}/decrement", h.metricsMiddleware("/api/cart/items/{id}/decrement", h.DecrementItem)).Methods("POST")
}

func parseProductID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
