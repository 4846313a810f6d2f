package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
//
// TokenVersion — непрозрачное значение, которое вшивается в каждый выпущенный токен.
// Меняется только при инвалидации сессий (logout, смена пароля); после смены
// все ранее выпущенные токены перестают проходить проверку версии.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	TokenVersion string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
