package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
)

// IssueTokens выпускает новую пару access+refresh для пользователя.
//
// Каждый вызов создаёт ровно одну новую refresh-запись. Запись в хранилище и
// подпись не связаны транзакцией: сбой после записи оставляет «осиротевшую»
// запись, на которую не ссылается ни один токен.
func (s *Service) IssueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.IssueTokens"

	lg := log.From(ctx)

	accessToken, accessExp, err := s.tokens.SignAccessToken(user)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	record, err := s.storage.CreateToken(ctx, user)
	if err != nil {
		lg.Error("refresh_record_create_failed",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	refreshToken, refreshExp, err := s.tokens.SignRefreshToken(user, record)
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	s.metrics.TokensIssued()

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
