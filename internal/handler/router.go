package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/goods-market/internal/metrics"
	custommiddleware "github.com/mmeshcher/goods-market/internal/middleware"
)

// RouterConfig содержит параметры маршрутизатора, не относящиеся к бизнес-логике.
type RouterConfig struct {
	CORSOrigin   string
	LoginLimiter *custommiddleware.ClientLimiter
}

// SetupRouter настраивает HTTP-маршруты и middleware сервиса магазина.
func (h *Handler) SetupRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.CORSOrigin != "" {
		r.Use(custommiddleware.CORS(cfg.CORSOrigin))
	}
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Metrics)
	r.Use(h.authMiddleware.Middleware)

	r.Get("/", h.Root)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/goods", func(r chi.Router) {
		r.Get("/all", h.ListGoods)
		r.Get("/categories/full", h.Categories)
		r.Get("/by_category/{category}", h.ListGoodsByCategory)
		r.Post("/add", h.AddGoods)
		r.Get("/{id}", h.GetGoods)
	})

	r.Route("/person", func(r chi.Router) {
		r.Post("/add", h.RegisterPerson)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(custommiddleware.RateLimit(cfg.LoginLimiter))
			}
			r.Post("/verify", h.VerifyPerson)
		})
	})

	r.Route("/order", func(r chi.Router) {
		r.Post("/place", h.PlaceOrder)
		r.Get("/{login}", h.ListOrders)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
