// Package metrics содержит метрики Prometheus витрины.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal считает HTTP-запросы.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration измеряет длительность HTTP-запросов.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ActionsTotal считает действия, принятые контроллером витрины.
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_actions_total",
			Help: "Total number of dispatched storefront actions",
		},
		[]string{"action", "result"},
	)

	// OrdersTotal считает оформленные заказы по статусу.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_total",
			Help: "Total number of placed orders",
		},
		[]string{"status"},
	)

	// OrderAmount распределение сумм заказов.
	OrderAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_order_amount_dollars",
			Help:    "Order totals in dollars",
			Buckets: []float64{50, 100, 250, 500, 1000, 5000},
		},
	)

	// CheckoutsCancelled считает прерванные имитации оплаты.
	CheckoutsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_cancelled_total",
			Help: "Total number of checkout flows torn down before completion",
		},
	)

	// DescriptionsTotal считает обращения к генератору описаний по исходу.
	DescriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_descriptions_total",
			Help: "Total number of AI description requests by outcome",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState состояние предохранителя (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// ActiveClients число клиентских состояний в памяти.
	ActiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_clients",
			Help: "Number of client application states held in memory",
		},
	)
)

// Middleware собирает метрики HTTP-запросов по шаблону маршрута chi.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
