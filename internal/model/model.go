// Package model содержит доменные сущности магазина товаров.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Person представляет зарегистрированного покупателя.
type Person struct {
	ID           int64
	Login        string
	PasswordHash []byte
	IsActive     bool
	// LoggedOutAt — момент последнего выхода, нулевой, если пользователь не выходил.
	LoggedOutAt time.Time
	CreatedAt   time.Time
}

// Session связывает запрос с пользователем и моментом выпуска его токена.
type Session struct {
	Login    string
	IssuedAt time.Time
}

// RevokedBy сообщает, отозван ли токен выходом пользователя в момент loggedOutAt.
// iat в токене хранится с точностью до секунды, поэтому сравнение идёт по целым секундам.
func (s Session) RevokedBy(loggedOutAt time.Time) bool {
	if loggedOutAt.IsZero() {
		return false
	}
	return s.IssuedAt.Before(loggedOutAt.Truncate(time.Second))
}

// Category описывает категорию товара.
type Category string

const (
	CategoryForOldMan   Category = "FOR_OLD_MAN"
	CategoryForGranny   Category = "FOR_GRANNY"
	CategoryForChildren Category = "FOR_CHILDREN"
)

var categories = []Category{
	CategoryForOldMan,
	CategoryForGranny,
	CategoryForChildren,
}

// Categories возвращает все допустимые категории в фиксированном порядке.
func Categories() []Category {
	res := make([]Category, len(categories))
	copy(res, categories)
	return res
}

// ParseCategory преобразует строку в категорию, если она входит в закрытый список.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Goods описывает товар каталога. GoodsID — бизнес-ключ, отличный от внутреннего ID.
type Goods struct {
	ID          int64
	GoodsID     string
	Title       string
	Category    Category
	Price       int64
	Image       string
	Description string
}

// CartItem — позиция корзины, присланная покупателем.
type CartItem struct {
	GoodsID  string
	Quantity int64
}

// OrderItem — снимок позиции заказа на момент оформления.
type OrderItem struct {
	GoodsID   string `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// Order описывает оформленный заказ.
type Order struct {
	ID        string
	UserLogin string
	Items     []OrderItem
	Total     decimal.Decimal
	CreatedAt time.Time
}
