// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/goods-market/internal/model"
)

// ErrInvalid — общий признак ошибки валидации, по нему HTTP-слой отвечает 400.
var ErrInvalid = errors.New("invalid input")

var (
	// ErrEmptyCart возвращается для пустой корзины.
	ErrEmptyCart = fmt.Errorf("%w: items list is empty", ErrInvalid)
	// ErrInvalidQuantity возвращается, если количество товара не положительное.
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	// ErrEmptyCredentials возвращается при пустом логине или пароле.
	ErrEmptyCredentials = fmt.Errorf("%w: login and password are required", ErrInvalid)
	// ErrPasswordTooLong возвращается, если пароль длиннее, чем допускает bcrypt.
	ErrPasswordTooLong = fmt.Errorf("%w: password is longer than %d bytes", ErrInvalid, MaxPasswordBytes)
	// ErrOrderTooLarge возвращается, если сумма заказа не помещается в столбец orders.total.
	ErrOrderTooLarge = fmt.Errorf("%w: order total must be less than %d", ErrInvalid, orderTotalLimit)
)

const (
	// MaxPasswordBytes — максимальная длина пароля, которую принимает bcrypt.
	MaxPasswordBytes = 72

	// orderTotalLimit соответствует NUMERIC(12, 2): десять знаков до запятой.
	orderTotalLimit int64 = 10_000_000_000
)

// MaxOrderTotal — граница суммы заказа, не включительно.
var MaxOrderTotal = decimal.NewFromInt(orderTotalLimit)

// ValidateCart проверяет, что корзина не пуста и все количества положительны.
func ValidateCart(items []model.CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	for _, it := range items {
		if strings.TrimSpace(it.GoodsID) == "" {
			return fmt.Errorf("%w: goods id is required", ErrInvalid)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidQuantity, it.GoodsID)
		}
		if it.Quantity >= orderTotalLimit {
			return fmt.Errorf("%w: quantity of %s is too large", ErrInvalid, it.GoodsID)
		}
	}

	return nil
}

// ValidateOrderTotal проверяет, что сумма заказа неотрицательна и помещается в хранилище.
func ValidateOrderTotal(total decimal.Decimal) error {
	if total.IsNegative() || total.GreaterThanOrEqual(MaxOrderTotal) {
		return ErrOrderTooLarge
	}
	return nil
}

// ValidateCredentials проверяет логин и пароль перед регистрацией или входом.
func ValidateCredentials(login, password string) error {
	if strings.TrimSpace(login) == "" || password == "" {
		return ErrEmptyCredentials
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateGoods проверяет описание товара перед добавлением в каталог.
func ValidateGoods(g model.Goods) error {
	if strings.TrimSpace(g.GoodsID) == "" {
		return fmt.Errorf("%w: goods id is required", ErrInvalid)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !utf8.ValidString(g.Title) || !utf8.ValidString(g.Description) {
		return fmt.Errorf("%w: text fields must be valid UTF-8", ErrInvalid)
	}
	if _, err := model.ParseCategory(string(g.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if g.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	if g.Image != "" {
		u, err := url.Parse(g.Image)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: image must be an absolute URL", ErrInvalid)
		}
	}
	return nil
}
