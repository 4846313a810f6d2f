package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — запись одного «поколения» refresh-токена.
//
// Для пользователя актуальна ровно одна запись — с максимальным CreatedAt
// («самая молодая»). Остальные считаются вытесненными и не удаляются при ротации;
// массово они удаляются только при очистке семейства после обнаружения повтора.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
