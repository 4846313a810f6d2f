// storage задаёт контракты хранилища auth-сервиса и таксономию его ошибок.
//
// Любая ошибка реализации классифицируется в одну из сентинел-ошибок ниже.
// Ошибка драйвера не пересекает границу пакета «как есть»: она оборачивается
// в ErrUnexpected, цепочка при этом сохраняется (errors.Is(err, context.Canceled)
// продолжает работать).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/painter-gallery/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь).
	ErrNotFound = errors.New("not found")
	// ErrForeignKeyConstraint — нарушение внешнего ключа (refresh-запись для несуществующего пользователя).
	ErrForeignKeyConstraint = errors.New("foreign key constraint")
	// ErrUniqueConstraint — нарушение уникальности (email/id).
	ErrUniqueConstraint = errors.New("unique constraint")
	// ErrUnexpected — прочие ошибки хранилища.
	ErrUnexpected = errors.New("unexpected storage error")
)

//go:generate mockgen -destination=../../mocks/storage_mock.go -package=mocks github.com/pribylovaa/painter-gallery/internal/storage Storage

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateTokenVersion сохраняет новую версию токенов пользователя.
	UpdateTokenVersion(ctx context.Context, id uuid.UUID, version string, now time.Time) error
	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error
}

// RefreshTokenStorage хранит поколения refresh-токенов.
type RefreshTokenStorage interface {
	// CreateToken создаёт новую запись для пользователя со случайным ID.
	CreateToken(ctx context.Context, user *models.User) (*models.RefreshToken, error)
	// FindYoungest возвращает самую молодую запись пользователя или (nil, nil).
	FindYoungest(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error)
	// ClearTokenFamily удаляет все записи пользователя. Идемпотентна.
	ClearTokenFamily(ctx context.Context, userID uuid.UUID) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	Close()
}
