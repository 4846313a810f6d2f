// memory — хранилище auth-сервиса в памяти процесса.
//
// Используется в окружении local (без PostgreSQL) и в тестах сервисного слоя.
// Повторяет семантику postgres-реализации: уникальный email без учёта регистра,
// внешний ключ refresh-записи на пользователя, «самая молодая» запись по CreatedAt.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/storage"
)

type Storage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	tokens  map[uuid.UUID][]models.RefreshToken
	now     func() time.Time
}

// Option настраивает Storage.
type Option func(*Storage)

// WithClock подменяет источник времени для CreatedAt/UpdatedAt refresh-записей.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// New создаёт пустое хранилище.
func New(opts ...Option) *Storage {
	s := &Storage{
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		tokens:  make(map[uuid.UUID][]models.RefreshToken),
		now:     func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SaveUser создаёт нового пользователя.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.memory.SaveUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUniqueConstraint)
	}
	if _, ok := s.byEmail[email]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUniqueConstraint)
	}

	s.users[user.ID] = *user
	s.byEmail[email] = user.ID

	return nil
}

// UserByEmail находит пользователя по email без учёта регистра.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.UserByEmail"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	user := s.users[id]
	return &user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.memory.UserByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &user, nil
}

// UpdateTokenVersion сохраняет новую версию токенов пользователя.
func (s *Storage) UpdateTokenVersion(ctx context.Context, id uuid.UUID, version string, now time.Time) error {
	return s.updateUser(ctx, "storage.memory.UpdateTokenVersion", id, now, func(u *models.User) {
		u.TokenVersion = version
	})
}

// UpdatePassword сохраняет новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error {
	return s.updateUser(ctx, "storage.memory.UpdatePassword", id, now, func(u *models.User) {
		u.PasswordHash = passwordHash
	})
}

func (s *Storage) updateUser(ctx context.Context, op string, id uuid.UUID, now time.Time, apply func(*models.User)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	apply(&user)
	user.UpdatedAt = now
	s.users[id] = user

	return nil
}

// CreateToken создаёт новое поколение refresh-токена для пользователя.
func (s *Storage) CreateToken(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	const op = "storage.memory.CreateToken"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrForeignKeyConstraint)
	}

	now := s.now()
	token := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tokens[user.ID] = append(s.tokens[user.ID], token)

	return &token, nil
}

// FindYoungest возвращает запись с наибольшим CreatedAt или (nil, nil).
// При равных CreatedAt побеждает вставленная позже.
func (s *Storage) FindYoungest(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	const op = "storage.memory.FindYoungest"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var youngest *models.RefreshToken
	for i := range s.tokens[userID] {
		t := s.tokens[userID][i]
		if youngest == nil || !t.CreatedAt.Before(youngest.CreatedAt) {
			youngest = &t
		}
	}

	return youngest, nil
}

// ClearTokenFamily удаляет все записи пользователя. Идемпотентна.
func (s *Storage) ClearTokenFamily(ctx context.Context, userID uuid.UUID) error {
	const op = "storage.memory.ClearTokenFamily"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUnexpected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)

	return nil
}

// TokenCount возвращает число записей семейства пользователя.
func (s *Storage) TokenCount(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens[userID])
}

// HasToken сообщает, хранится ли запись с указанным ID.
func (s *Storage) HasToken(userID, tokenID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tokens[userID] {
		if t.ID == tokenID {
			return true
		}
	}

	return false
}

// Close ничего не делает: ресурсов нет.
func (s *Storage) Close() {}

var _ storage.Storage = (*Storage)(nil)
