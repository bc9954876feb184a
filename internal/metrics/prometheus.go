// Package metrics содержит метрики Prometheus сервиса магазина.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	ordersPlacedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "market_orders_placed_total",
			Help: "Total number of placed orders.",
		},
	)
	orderLineItems = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "market_order_line_items",
			Help:    "Number of line items per placed order.",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(ordersPlacedTotal)
	prometheus.MustRegister(orderLineItems)
}

// RecordRequest записывает метрики для HTTP-запроса.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordOrder учитывает оформленный заказ.
func RecordOrder(lineItems int) {
	ordersPlacedTotal.Inc()
	orderLineItems.Observe(float64(lineItems))
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
