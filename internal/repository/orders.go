package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/goods-market/internal/model"
)

// OrderBuilder собирает позиции и сумму заказа по найденным товарам.
// Ключ found — бизнес-ключ товара; отсутствующие в каталоге товары в found не попадают.
// Ошибка builder'а откатывает транзакцию и возвращается вызывающему как есть.
type OrderBuilder func(found map[string]model.Goods) (*model.Order, error)

// CreateOrder в одной транзакции проверяет, что пользователь выполнил вход и сессия не отозвана,
// загружает товары по идентификаторам, собирает заказ через build и сохраняет его.
// Строка пользователя блокируется FOR SHARE, поэтому параллельный выход дождётся фиксации заказа.
func (r *PostgresRepository) CreateOrder(ctx context.Context, session model.Session, goodsIDs []string, build OrderBuilder) (*model.Order, error) {
	login := session.Login

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		active      bool
		loggedOutAt *time.Time
	)
	err = tx.QueryRow(ctx,
		`SELECT is_active, logged_out_at FROM persons WHERE login = $1 FOR SHARE`,
		login,
	).Scan(&active, &loggedOutAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("lock person: %w", err)
	}
	if !active {
		return nil, ErrPersonInactive
	}
	if loggedOutAt != nil && session.RevokedBy(*loggedOutAt) {
		return nil, ErrSessionRevoked
	}

	rows, err := tx.Query(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE goods_id = ANY($1)`,
		goodsIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select goods for order: %w", err)
	}

	goods, err := collectGoods(rows)
	if err != nil {
		return nil, err
	}

	found := make(map[string]model.Goods, len(goods))
	for _, g := range goods {
		found[g.GoodsID] = g
	}

	order, err := build(found)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (order_id, user_login, items, total)
		 VALUES ($1, $2, $3, $4::text::numeric)
		 RETURNING created_at`,
		id, login, order.Items, order.Total.StringFixed(2),
	).Scan(&order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	order.ID = id.String()
	order.UserLogin = login

	return order, nil
}

// GetOrdersByLogin возвращает заказы пользователя, новые первыми.
func (r *PostgresRepository) GetOrdersByLogin(ctx context.Context, login string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id::text, user_login, items, total::text, created_at
		 FROM orders
		 WHERE user_login = $1
		 ORDER BY created_at DESC`,
		login,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var (
			o         model.Order
			total     string
			createdAt time.Time
		)
		if err := rows.Scan(&o.ID, &o.UserLogin, &o.Items, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		o.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse order total: %w", err)
		}
		o.CreatedAt = createdAt

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
