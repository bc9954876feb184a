package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/goods-market/internal/middleware"
	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/repository"
	"github.com/mmeshcher/goods-market/internal/service"
	"github.com/mmeshcher/goods-market/internal/validation"
)

type cartItemRequest struct {
	ID  string `json:"id"`
	Qty int64  `json:"qty"`
}

type placeOrderRequest struct {
	Items []cartItemRequest `json:"items"`
}

type orderResponse struct {
	OrderID   string            `json:"order_id"`
	CreatedAt string            `json:"created_at,omitempty"`
	Items     []model.OrderItem `json:"items"`
	Total     json.Number       `json:"total"`
}

func toOrderResponse(o model.Order) orderResponse {
	resp := orderResponse{
		OrderID: o.ID,
		Items:   o.Items,
		Total:   json.Number(o.Total.StringFixed(2)),
	}
	if resp.Items == nil {
		resp.Items = []model.OrderItem{}
	}
	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// PlaceOrder оформляет заказ текущего пользователя по содержимому корзины.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.CartItem{GoodsID: it.ID, Quantity: it.Qty})
	}

	session, _ := middleware.GetSessionFromContext(r.Context())

	order, err := h.service.PlaceOrder(r.Context(), session, items)
	if err != nil {
		var notFound *service.GoodsNotFoundError
		switch {
		case errors.Is(err, validation.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrNotLoggedIn):
			http.Error(w, "Unable to place an order, you need to login.", http.StatusBadRequest)
		case errors.As(err, &notFound):
			http.Error(w, "Goods not found: "+strings.Join(notFound.IDs, ", "), http.StatusNotFound)
		default:
			h.internalError(w, "place order error", err, zap.String("login", session.Login))
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// ListOrders возвращает заказы пользователя, новые первыми.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	orders, err := h.service.ListOrders(r.Context(), login)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		h.internalError(w, "list orders error", err, zap.String("login", login))
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	h.writeJSON(w, http.StatusOK, resp)
}
