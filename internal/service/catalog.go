package service

import (
	"context"

	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/validation"
)

// ListGoods возвращает весь каталог.
func (s *Service) ListGoods(ctx context.Context) ([]model.Goods, error) {
	return s.repo.ListGoods(ctx)
}

// GetGoods возвращает товар по бизнес-ключу.
func (s *Service) GetGoods(ctx context.Context, goodsID string) (*model.Goods, error) {
	return s.repo.GetGoodsByID(ctx, goodsID)
}

// ListGoodsByCategory возвращает товары категории. Категория проверяется на границе.
func (s *Service) ListGoodsByCategory(ctx context.Context, category model.Category) ([]model.Goods, error) {
	return s.repo.ListGoodsByCategory(ctx, category)
}

// AddGoods добавляет товар в каталог.
func (s *Service) AddGoods(ctx context.Context, g model.Goods) (*model.Goods, error) {
	if err := validation.ValidateGoods(g); err != nil {
		return nil, err
	}
	return s.repo.CreateGoods(ctx, g)
}

// Categories возвращает список всех категорий.
func (s *Service) Categories() []string {
	cats := model.Categories()
	res := make([]string, 0, len(cats))
	for _, c := range cats {
		res = append(res, string(c))
	}
	return res
}
