package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/goods-market/internal/metrics"
)

// Metrics учитывает запросы в Prometheus. В качестве endpoint используется шаблон маршрута chi,
// чтобы идентификаторы из пути не раздували число меток.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw, data := wrapResponseWriter(w)

		next.ServeHTTP(mw, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}

		metrics.RecordRequest(r.Method, endpoint, data.statusOrOK(), time.Since(start))
	})
}
