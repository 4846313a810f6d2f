// service содержит бизнес-логику auth-сервиса: выпуск пар токенов, протокол
// обновления с ротацией refresh-токенов и обнаружением повторов, инвалидацию
// сессий через версию токенов и локальную аутентификацию по email+пароль.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для конкурентного
//     использования при условии, что хранилище и кэш потокобезопасны.
//   - Любая причина отказа в обновлении (подпись, срок, пользователь, версия, повтор)
//     сводится к ErrUnauthenticated; конкретная причина пишется только в лог.
//   - Ошибки хранилища, кроме ожидаемого отсутствия, сводятся к ErrInternal.
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/painter-gallery/internal/cache"
	"github.com/pribylovaa/painter-gallery/internal/metrics"
	"github.com/pribylovaa/painter-gallery/internal/storage"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
)

var (
	// ErrUnauthenticated — предъявленный токен не даёт доступа.
	// Транспорт: HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInternal — сбой хранилища или подписи. Транспорт: HTTP 500.
	ErrInternal = errors.New("internal error")

	// ErrNotFound — пользователь не найден. Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken — e-mail уже занят. Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат. Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности. Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage    storage.Storage
	tokens     *tokens.Manager
	vcache     cache.VersionCache // может быть nil, если кэш не сконфигурирован
	versionTTL time.Duration
	metrics    *metrics.Metrics // может быть nil
	now        func() time.Time
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, tm *tokens.Manager) *Service {
	return &Service{
		storage: storage,
		tokens:  tm,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetVersionCache устанавливает кэш версий токенов (опционально).
func (s *Service) SetVersionCache(c cache.VersionCache, ttl time.Duration) {
	s.vcache = c
	s.versionTTL = ttl
}

// SetMetrics подключает prometheus-метрики (опционально).
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Tokens возвращает менеджер токенов (для проверки access-токенов на транспорте).
func (s *Service) Tokens() *tokens.Manager {
	return s.tokens
}
