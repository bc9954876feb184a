package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/goods-market/internal/model"
)

const goodsColumns = `id, goods_id, title, category, price, image, description`

// CreateGoods добавляет товар в каталог.
func (r *PostgresRepository) CreateGoods(ctx context.Context, g model.Goods) (*model.Goods, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO goods (goods_id, title, category, price, image, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		g.GoodsID, g.Title, string(g.Category), g.Price, g.Image, g.Description,
	).Scan(&g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrGoodsExists, g.GoodsID)
		}
		return nil, fmt.Errorf("create goods: %w", err)
	}

	return &g, nil
}

// GetGoodsByID возвращает товар по бизнес-ключу.
func (r *PostgresRepository) GetGoodsByID(ctx context.Context, goodsID string) (*model.Goods, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE goods_id = $1`,
		goodsID,
	)

	g, err := scanGoods(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoodsNotFound
		}
		return nil, fmt.Errorf("get goods: %w", err)
	}

	return &g, nil
}

// ListGoods возвращает все товары в порядке добавления.
func (r *PostgresRepository) ListGoods(ctx context.Context) ([]model.Goods, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goodsColumns+` FROM goods ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select goods: %w", err)
	}

	return collectGoods(rows)
}

// ListGoodsByCategory возвращает товары указанной категории.
func (r *PostgresRepository) ListGoodsByCategory(ctx context.Context, category model.Category) ([]model.Goods, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE category = $1 ORDER BY id`,
		string(category),
	)
	if err != nil {
		return nil, fmt.Errorf("select goods by category: %w", err)
	}

	return collectGoods(rows)
}

func scanGoods(row pgx.Row) (model.Goods, error) {
	var (
		g        model.Goods
		category string
	)
	if err := row.Scan(&g.ID, &g.GoodsID, &g.Title, &category, &g.Price, &g.Image, &g.Description); err != nil {
		return model.Goods{}, err
	}
	g.Category = model.Category(category)
	return g, nil
}

func collectGoods(rows pgx.Rows) ([]model.Goods, error) {
	defer rows.Close()

	res := make([]model.Goods, 0)
	for rows.Next() {
		g, err := scanGoods(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods: %w", err)
		}
		res = append(res, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
