package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/goods-market/internal/metrics"
	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/repository"
	"github.com/mmeshcher/goods-market/internal/validation"
)

// RoundTotal округляет сумму заказа до двух знаков по банковскому правилу (половина к чётному).
func RoundTotal(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// PlaceOrder оформляет заказ пользователя сессии по содержимому корзины.
// Проверка пользователя, поиск товаров и запись заказа выполняются в одной транзакции.
func (s *Service) PlaceOrder(ctx context.Context, session model.Session, items []model.CartItem) (*model.Order, error) {
	if err := validation.ValidateCart(items); err != nil {
		return nil, err
	}

	if session.Login == "" {
		return nil, ErrNotLoggedIn
	}

	ids := uniqueGoodsIDs(items)

	order, err := s.repo.CreateOrder(ctx, session, ids, func(found map[string]model.Goods) (*model.Order, error) {
		return buildOrder(ids, items, found)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPersonNotFound),
			errors.Is(err, repository.ErrPersonInactive),
			errors.Is(err, repository.ErrSessionRevoked):
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	metrics.RecordOrder(len(order.Items))

	return order, nil
}

func buildOrder(ids []string, items []model.CartItem, found map[string]model.Goods) (*model.Order, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &GoodsNotFoundError{IDs: missing}
	}

	out := make([]model.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		g := found[it.GoodsID]
		lineTotal := decimal.NewFromInt(g.Price).Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(lineTotal)
		// Каждая позиция не больше суммы, поэтому после проверки суммы влезает в int64.
		if err := validation.ValidateOrderTotal(total); err != nil {
			return nil, err
		}

		out = append(out, model.OrderItem{
			GoodsID:   g.GoodsID,
			Title:     g.Title,
			Price:     g.Price,
			Quantity:  it.Quantity,
			LineTotal: lineTotal.IntPart(),
		})
	}

	return &model.Order{
		Items: out,
		Total: RoundTotal(total),
	}, nil
}

func uniqueGoodsIDs(items []model.CartItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.GoodsID]; ok {
			continue
		}
		seen[it.GoodsID] = struct{}{}
		ids = append(ids, it.GoodsID)
	}
	return ids
}

// ListOrders возвращает заказы пользователя, новые первыми.
func (s *Service) ListOrders(ctx context.Context, login string) ([]model.Order, error) {
	if _, err := s.repo.GetPersonByLogin(ctx, login); err != nil {
		return nil, err
	}
	return s.repo.GetOrdersByLogin(ctx, login)
}
