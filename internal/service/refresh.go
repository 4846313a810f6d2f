package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/painter-gallery/internal/metrics"
	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
	"github.com/pribylovaa/painter-gallery/internal/pkg/redact"
	"github.com/pribylovaa/painter-gallery/internal/storage"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
)

// verdict — решение протокола обновления по уже загруженному состоянию.
type verdict int

const (
	verdictReject verdict = iota
	verdictRotate
	verdictReplay
)

func (v verdict) String() string {
	switch v {
	case verdictRotate:
		return "rotate"
	case verdictReplay:
		return "replay"
	default:
		return "reject"
	}
}

// Причины отказа (только для логов).
const (
	reasonVersionMismatch = "token_version_mismatch"
	reasonNoFamily        = "no_refresh_records"
	reasonSuperseded      = "superseded_refresh_token"
)

// classifyRefresh принимает решение по проверенным claims, пользователю и
// самой молодой refresh-записи (nil, если записей нет). Функция не имеет
// побочных эффектов; reason пуст только для verdictRotate.
func classifyRefresh(claims *tokens.Refresh, user *models.User, youngest *models.RefreshToken) (verdict, string) {
	switch {
	case user.TokenVersion != claims.TokenVersion:
		return verdictReject, reasonVersionMismatch
	case youngest == nil:
		return verdictReject, reasonNoFamily
	case youngest.ID != claims.RefreshTokenID:
		return verdictReplay, reasonSuperseded
	default:
		return verdictRotate, ""
	}
}

// Refresh обменивает refresh-токен на новую пару токенов.
//
// Токен принимается, только если его подпись и срок действительны, версия
// совпадает с текущей версией пользователя и он ссылается на самую молодую
// refresh-запись пользователя. Предъявление вытесненного токена считается
// повтором: все refresh-записи пользователя удаляются, и ни один из
// выпущенных ему refresh-токенов больше не обменивается.
//
// Старая запись при ротации не удаляется: её вытесняет новая, более молодая.
// Два конкурентных обмена одного и того же токена могут оба пройти проверку
// семейства; токен проигравшего позже будет распознан как повтор.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, *models.User, error) {
	const op = "service.Refresh"

	lg := log.From(ctx)

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		lg.Warn("refresh_token_invalid",
			slog.String("op", op),
			slog.String("token", redact.Token(refreshToken)),
			slog.String("err", err.Error()),
		)
		s.metrics.Refresh(metrics.OutcomeRejected)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	lg = lg.With(slog.String("user_id", claims.UserID.String()))

	user, err := s.storage.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_user_not_found", slog.String("op", op))
			s.metrics.Refresh(metrics.OutcomeRejected)
			return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}

		lg.Error("refresh_user_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	// Семейство имеет смысл смотреть только для токена текущей версии.
	var youngest *models.RefreshToken
	if user.TokenVersion == claims.TokenVersion {
		youngest, err = s.storage.FindYoungest(ctx, user.ID)
		if err != nil {
			lg.Error("refresh_family_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
			s.metrics.Refresh(metrics.OutcomeError)
			return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
		}
	}

	v, reason := classifyRefresh(claims, user, youngest)
	switch v {
	case verdictRotate:
		pair, err := s.IssueTokens(ctx, user)
		if err != nil {
			s.metrics.Refresh(metrics.OutcomeError)
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		lg.Info("refresh_rotated", slog.String("op", op))
		s.metrics.Refresh(metrics.OutcomeRotated)
		return pair, user, nil

	case verdictReplay:
		lg.Warn("refresh_replay_detected",
			slog.String("op", op),
			slog.String("reason", reason),
			slog.String("presented_rti", claims.RefreshTokenID.String()),
		)
		s.metrics.Refresh(metrics.OutcomeReplay)

		// Очистка не должна зависеть от того, дождался ли клиент ответа.
		if err := s.storage.ClearTokenFamily(context.WithoutCancel(ctx), user.ID); err != nil {
			lg.Error("refresh_family_clear_failed", slog.String("op", op), slog.String("err", err.Error()))
			s.metrics.FamilyClearFailed()
		}

		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)

	default:
		lg.Warn("refresh_rejected", slog.String("op", op), slog.String("reason", reason))
		s.metrics.Refresh(metrics.OutcomeRejected)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
}
