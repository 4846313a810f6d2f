package handlers

import (
	"github.com/pribylovaa/painter-gallery/internal/models"
)

// Входные/выходные модели REST.

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	UserID           string `json:"user_id"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`  // Unix UTC
	RefreshExpiresAt int64  `json:"refresh_expires_at"` // Unix UTC
}

type MeResponse struct {
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"` // Unix UTC, срок текущего access-токена
}

func authResponse(user *models.User, pair *models.TokenPair) AuthResponse {
	return AuthResponse{
		UserID:           user.ID.String(),
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt.Unix(),
		RefreshExpiresAt: pair.RefreshExpiresAt.Unix(),
	}
}
