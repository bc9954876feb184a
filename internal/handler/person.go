package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/goods-market/internal/middleware"
	"github.com/mmeshcher/goods-market/internal/repository"
	"github.com/mmeshcher/goods-market/internal/service"
	"github.com/mmeshcher/goods-market/internal/validation"
)

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Login string `json:"login"`
}

type personResponse struct {
	Login    string `json:"login"`
	IsActive bool   `json:"is_active"`
}

// RegisterPerson обрабатывает регистрацию нового пользователя.
func (h *Handler) RegisterPerson(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.RegisterPerson(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrPersonExists):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			h.internalError(w, "register person error", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, personResponse{Login: p.Login, IsActive: p.IsActive})
}

// VerifyPerson проверяет логин и пароль, отмечает вход и выдаёт токен сессии.
func (h *Handler) VerifyPerson(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ok, err := h.service.VerifyAndActivate(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPersonNotFound):
			http.Error(w, "User not found.", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Incorrect password.", http.StatusUnauthorized)
		default:
			h.internalError(w, "verify person error", err, zap.String("login", req.Login))
		}
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, req.Login); err != nil {
		h.internalError(w, "issue session token error", err, zap.String("login", req.Login))
		return
	}

	h.writeJSON(w, http.StatusOK, ok)
}

// Logout снимает отметку входа пользователя и удаляет cookie сессии.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.Login == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Logout(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		h.internalError(w, "logout error", err, zap.String("login", req.Login))
		return
	}

	// Cookie сбрасывается, только если пользователь выходит сам.
	if login, authed := middleware.GetLoginFromContext(r.Context()); authed && login == req.Login {
		h.authMiddleware.ClearAuthCookie(w)
	}
	h.writeJSON(w, http.StatusOK, ok)
}
