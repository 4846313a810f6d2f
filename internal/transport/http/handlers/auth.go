package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/service"
	apierrors "github.com/pribylovaa/painter-gallery/internal/transport/http/errors"
	"github.com/pribylovaa/painter-gallery/internal/transport/http/middleware"
)

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in AuthRegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	pair, user, err := h.svc.RegisterUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusCreated, authResponse(user, pair))
}

func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in AuthLoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	pair, user, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, authResponse(user, pair))
}

// RefreshToken принимает refresh-токен из cookie, а при её отсутствии из тела.
// Любой отказ очищает cookie.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.refreshTokenFrom(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, user, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			h.clearRefreshCookie(w)
		}
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, authResponse(user, pair))
}

func (h *Handlers) refreshTokenFrom(r *http.Request) (string, error) {
	if c, err := r.Cookie(h.cookie.Name); err == nil && c.Value != "" {
		return c.Value, nil
	}

	var in AuthRefreshRequest
	if err := decodeStrict(r, &in); err != nil {
		if errors.Is(err, io.EOF) {
			return "", service.ErrUnauthenticated
		}
		return "", apierrors.ErrInvalidRequest
	}

	if in.RefreshToken == "" {
		return "", service.ErrUnauthenticated
	}

	return in.RefreshToken, nil
}

// Logout завершает все сессии пользователя текущего access-токена.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccessFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := h.svc.Logout(r.Context(), claims.UserID); err != nil {
		// Пользователь удалён: сессий у него уже нет.
		if errors.Is(err, service.ErrNotFound) {
			err = service.ErrUnauthenticated
		}
		apierrors.WriteError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword меняет пароль и выдаёт новую пару; прочие сессии завершаются.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccessFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	var in ChangePasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	pair, err := h.svc.ChangePassword(r.Context(), claims.UserID, in.OldPassword, in.NewPassword)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, authResponse(&models.User{ID: claims.UserID}, pair))
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccessFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		UserID:    claims.UserID.String(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}
