// Package seed загружает начальное наполнение каталога из YAML-файла.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/repository"
)

// GoodsAdder добавляет товар в каталог.
type GoodsAdder interface {
	AddGoods(ctx context.Context, g model.Goods) (*model.Goods, error)
}

type catalogFile struct {
	Goods []goodsEntry `yaml:"goods"`
}

type goodsEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Price       int64  `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

// Parse читает описание каталога из YAML.
func Parse(r io.Reader) ([]model.Goods, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	res := make([]model.Goods, 0, len(file.Goods))
	for i, e := range file.Goods {
		category, err := model.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("goods #%d (%s): %w", i+1, e.ID, err)
		}
		res = append(res, model.Goods{
			GoodsID:     e.ID,
			Title:       e.Title,
			Category:    category,
			Price:       e.Price,
			Image:       e.Image,
			Description: e.Description,
		})
	}

	return res, nil
}

// Load добавляет товары из файла path. Уже существующие товары пропускаются,
// поэтому повторный запуск не меняет каталог. Возвращает число добавленных товаров.
func Load(ctx context.Context, path string, adder GoodsAdder, logger *zap.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()

	goods, err := Parse(f)
	if err != nil {
		return 0, err
	}

	return Apply(ctx, goods, adder, logger)
}

// Apply добавляет товары через adder, пропуская уже существующие.
func Apply(ctx context.Context, goods []model.Goods, adder GoodsAdder, logger *zap.Logger) (int, error) {
	added := 0
	for _, g := range goods {
		_, err := adder.AddGoods(ctx, g)
		if err != nil {
			if errors.Is(err, repository.ErrGoodsExists) {
				logger.Debug("seed goods already exists", zap.String("goodsID", g.GoodsID))
				continue
			}
			return added, fmt.Errorf("seed goods %s: %w", g.GoodsID, err)
		}
		added++
	}

	return added, nil
}
