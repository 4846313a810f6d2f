package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/painter-gallery/internal/models"
)

// CreateToken создаёт новое поколение refresh-токена для пользователя.
func (s *Storage) CreateToken(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	const op = "storage.postgres.CreateToken"

	now := s.now()
	token := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO refresh_tokens(id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.CreatedAt,
		token.UpdatedAt,
	)
	if err != nil {
		return nil, classify(op, err)
	}

	return token, nil
}

// FindYoungest возвращает самую молодую запись пользователя.
// Отсутствие записей не является ошибкой: возвращается (nil, nil).
func (s *Storage) FindYoungest(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	const op = "storage.postgres.FindYoungest"

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM refresh_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var token models.RefreshToken
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, classify(op, err)
	}

	return &token, nil
}

// ClearTokenFamily удаляет все записи пользователя.
// Успешна и при отсутствии записей, и для несуществующего пользователя.
func (s *Storage) ClearTokenFamily(ctx context.Context, userID uuid.UUID) error {
	const op = "storage.postgres.ClearTokenFamily"

	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`

	if _, err := s.db.Exec(ctx, query, userID); err != nil {
		return classify(op, err)
	}

	return nil
}
