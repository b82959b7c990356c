package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/order/controller"
	"orderdesk/internal/product"
)

type RouterDeps struct {
	Orders *controller.OrderController
	// Products is nil when the catalog is disabled.
	Products *product.Controller
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	mountOps(r, deps.Gatherer)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", deps.Orders.CreateOrder)
		r.Get("/{orderId}", deps.Orders.GetOrder)
		r.Post("/{orderId}/confirm", deps.Orders.ConfirmOrder)
		r.Post("/{orderId}/cancel", deps.Orders.CancelOrder)
	})

	// Paths used by the storefront before the /orders API existed.
	r.Route("/api", func(r chi.Router) {
		r.Post("/create-order/", deps.Orders.CreateOrder)
		r.Get("/order/{orderId}/", deps.Orders.GetOrder)
		r.Post("/order/{orderId}/confirm/", deps.Orders.ConfirmOrder)
	})

	if deps.Products != nil {
		r.Post("/products/search", deps.Products.HandleSearchProducts)
	}

	return r
}

// NewOpsRouter serves only /health and /metrics, for processes without an
// HTTP API of their own.
func NewOpsRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	mountOps(r, gatherer)
	return r
}

func mountOps(r chi.Router, gatherer prometheus.Gatherer) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", metrics.Handler(gatherer))
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
