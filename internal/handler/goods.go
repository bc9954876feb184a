package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/repository"
	"github.com/mmeshcher/goods-market/internal/validation"
)

type goodsDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func toGoodsDTO(g model.Goods) goodsDTO {
	return goodsDTO{
		ID:          g.GoodsID,
		Title:       g.Title,
		Category:    string(g.Category),
		Price:       g.Price,
		Image:       g.Image,
		Description: g.Description,
	}
}

func toGoodsList(goods []model.Goods) []goodsDTO {
	resp := make([]goodsDTO, 0, len(goods))
	for _, g := range goods {
		resp = append(resp, toGoodsDTO(g))
	}
	return resp
}

// ListGoods возвращает все товары каталога.
func (h *Handler) ListGoods(w http.ResponseWriter, r *http.Request) {
	goods, err := h.service.ListGoods(r.Context())
	if err != nil {
		h.internalError(w, "list goods error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, toGoodsList(goods))
}

// GetGoods возвращает товар по его идентификатору.
func (h *Handler) GetGoods(w http.ResponseWriter, r *http.Request) {
	goodsID := chi.URLParam(r, "id")

	g, err := h.service.GetGoods(r.Context(), goodsID)
	if err != nil {
		if errors.Is(err, repository.ErrGoodsNotFound) {
			http.Error(w, "Goods not found.", http.StatusNotFound)
			return
		}
		h.internalError(w, "get goods error", err, zap.String("goodsID", goodsID))
		return
	}

	h.writeJSON(w, http.StatusOK, toGoodsDTO(*g))
}

// ListGoodsByCategory возвращает товары указанной категории.
func (h *Handler) ListGoodsByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := model.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goods, err := h.service.ListGoodsByCategory(r.Context(), category)
	if err != nil {
		h.internalError(w, "list goods by category error", err, zap.String("category", string(category)))
		return
	}

	h.writeJSON(w, http.StatusOK, toGoodsList(goods))
}

// AddGoods добавляет товар в каталог.
func (h *Handler) AddGoods(w http.ResponseWriter, r *http.Request) {
	var req goodsDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.AddGoods(r.Context(), model.Goods{
		GoodsID:     req.ID,
		Title:       req.Title,
		Category:    category,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrGoodsExists):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			h.internalError(w, "add goods error", err, zap.String("goodsID", req.ID))
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toGoodsDTO(*created))
}

// Categories возвращает список всех категорий товаров.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Categories())
}
