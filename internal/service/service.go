// Package service реализует бизнес-логику магазина: каталог, пользователей и заказы.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/repository"
)

var (
	// ErrInvalidCredentials возвращается, если пароль не совпал с сохранённым хешем.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotLoggedIn возвращается при оформлении заказа без выполненного входа.
	ErrNotLoggedIn = errors.New("unable to place an order, you need to login")
)

// GoodsNotFoundError перечисляет все идентификаторы товаров, которых нет в каталоге.
type GoodsNotFoundError struct {
	IDs []string
}

func (e *GoodsNotFoundError) Error() string {
	return fmt.Sprintf("goods not found: %s", strings.Join(e.IDs, ", "))
}

func (e *GoodsNotFoundError) Unwrap() error {
	return repository.ErrGoodsNotFound
}

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreatePerson(ctx context.Context, login string, passwordHash []byte) (*model.Person, error)
	GetPersonByLogin(ctx context.Context, login string) (*model.Person, error)
	SetPersonActive(ctx context.Context, login string, active bool) error

	CreateGoods(ctx context.Context, g model.Goods) (*model.Goods, error)
	GetGoodsByID(ctx context.Context, goodsID string) (*model.Goods, error)
	ListGoods(ctx context.Context) ([]model.Goods, error)
	ListGoodsByCategory(ctx context.Context, category model.Category) ([]model.Goods, error)

	CreateOrder(ctx context.Context, session model.Session, goodsIDs []string, build repository.OrderBuilder) (*model.Order, error)
	GetOrdersByLogin(ctx context.Context, login string) ([]model.Order, error)
}

// Service содержит бизнес-логику магазина.
type Service struct {
	repo     Repository
	hashCost int
}

// NewService создаёт новый сервис поверх указанного репозитория.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		hashCost: bcrypt.DefaultCost,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
