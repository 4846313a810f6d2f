package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
	"github.com/pribylovaa/painter-gallery/internal/storage"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
)

// RotateTokenVersion назначает пользователю новую версию токенов.
// Все ранее выпущенные access- и refresh-токены после этого отклоняются.
func (s *Service) RotateTokenVersion(ctx context.Context, userID uuid.UUID) error {
	const op = "service.RotateTokenVersion"

	if _, err := s.rotateTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Logout завершает все сессии пользователя.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "service.Logout"

	if err := s.RotateTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// rotateTokenVersion сохраняет новую версию и сбрасывает её кэш.
// Возвращает назначенную версию.
func (s *Service) rotateTokenVersion(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "service.rotateTokenVersion"

	lg := log.From(ctx).With(slog.String("user_id", userID.String()))

	version := uuid.NewString()
	if err := s.storage.UpdateTokenVersion(ctx, userID, version, s.now()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("token_version_update_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	if s.vcache != nil {
		if err := s.vcache.Delete(context.WithoutCancel(ctx), userID); err != nil {
			// Устаревшая запись доживёт до истечения versionTTL.
			lg.Error("token_version_cache_delete_failed", slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	lg.Info("sessions_invalidated", slog.String("op", op))
	s.metrics.SessionInvalidated()

	return version, nil
}

// Authenticate проверяет access-токен и актуальность его версии.
// Любая причина отказа сводится к ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*tokens.Access, error) {
	const op = "service.Authenticate"

	lg := log.From(ctx)

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		lg.Debug("access_token_invalid", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	version, err := s.currentVersion(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if version != claims.TokenVersion {
		lg.Info("access_token_version_mismatch",
			slog.String("op", op),
			slog.String("user_id", claims.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return claims, nil
}

// currentVersion возвращает текущую версию токенов пользователя: из кэша,
// а при промахе или ошибке кэша из хранилища (с заполнением кэша).
func (s *Service) currentVersion(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "service.currentVersion"

	lg := log.From(ctx).With(slog.String("user_id", userID.String()))

	if s.vcache != nil {
		version, ok, err := s.vcache.Get(ctx, userID)
		switch {
		case err != nil:
			lg.Warn("token_version_cache_get_failed", slog.String("op", op), slog.String("err", err.Error()))
		case ok:
			return version, nil
		}
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}

		lg.Error("token_version_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	if s.vcache != nil {
		if err := s.vcache.Set(ctx, userID, user.TokenVersion, s.versionTTL); err != nil {
			lg.Warn("token_version_cache_set_failed", slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return user.TokenVersion, nil
}
