package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/goods-market/internal/model"
	"github.com/mmeshcher/goods-market/internal/validation"
)

// RegisterPerson регистрирует нового пользователя. Сохраняется только bcrypt-хеш пароля.
func (s *Service) RegisterPerson(ctx context.Context, login, password string) (*model.Person, error) {
	if err := validation.ValidateCredentials(login, password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CreatePerson(ctx, login, hashed)
}

// VerifyAndActivate проверяет пароль пользователя и отмечает его как выполнившего вход.
// При неверном пароле флаг входа не меняется.
func (s *Service) VerifyAndActivate(ctx context.Context, login, password string) (bool, error) {
	p, err := s.repo.GetPersonByLogin(ctx, login)
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, ErrInvalidCredentials
		}
		return false, fmt.Errorf("compare password: %w", err)
	}

	if !p.IsActive {
		if err := s.repo.SetPersonActive(ctx, login, true); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Logout снимает флаг входа пользователя. Повторный вызов ничего не меняет.
func (s *Service) Logout(ctx context.Context, login string) (bool, error) {
	p, err := s.repo.GetPersonByLogin(ctx, login)
	if err != nil {
		return false, err
	}

	if p.IsActive {
		if err := s.repo.SetPersonActive(ctx, login, false); err != nil {
			return false, err
		}
	}

	return true, nil
}
