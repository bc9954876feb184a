// Package handler содержит HTTP-обработчики API магазина.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/goods-market/internal/middleware"
	"github.com/mmeshcher/goods-market/internal/model"
)

const maxBodyBytes = 1 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListGoods(ctx context.Context) ([]model.Goods, error)
	GetGoods(ctx context.Context, goodsID string) (*model.Goods, error)
	ListGoodsByCategory(ctx context.Context, category model.Category) ([]model.Goods, error)
	AddGoods(ctx context.Context, g model.Goods) (*model.Goods, error)
	Categories() []string

	RegisterPerson(ctx context.Context, login, password string) (*model.Person, error)
	VerifyAndActivate(ctx context.Context, login, password string) (bool, error)
	Logout(ctx context.Context, login string) (bool, error)

	PlaceOrder(ctx context.Context, session model.Session, items []model.CartItem) (*model.Order, error)
	ListOrders(ctx context.Context, login string) ([]model.Order, error)
}

// Handler реализует HTTP-обработчики API магазина.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// Root отвечает приветствием, используется как проверка доступности.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Hello, market!"})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	h.logger.Error(msg, append(fields, zap.Error(err))...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
