// cache хранит в Redis актуальную версию токенов пользователя, чтобы проверка
// access-токена на каждом запросе не ходила в БД.
//
// Кэш только ускоряет чтение: источник истины — хранилище. После ротации версии
// сервис удаляет ключ, и следующий запрос перечитывает значение из БД.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=../../mocks/cache_mock.go -package=mocks github.com/pribylovaa/painter-gallery/internal/cache VersionCache

// VersionCache — минимальный контракт кэша версий токенов.
type VersionCache interface {
	// Get возвращает версию и признак её наличия в кэше.
	Get(ctx context.Context, userID uuid.UUID) (string, bool, error)
	// Set сохраняет версию с TTL.
	Set(ctx context.Context, userID uuid.UUID, version string, ttl time.Duration) error
	// Delete удаляет версию пользователя из кэша.
	Delete(ctx context.Context, userID uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:tv:".
func NewRedisCache(ctx context.Context, redisURL, prefix string) (VersionCache, error) {
	if prefix == "" {
		prefix = "auth:tv:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(userID uuid.UUID) string { return c.prefix + userID.String() }

func (c *redisCache) Get(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	v, err := c.rdb.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, err
	}

	return v, true, nil
}

func (c *redisCache) Set(ctx context.Context, userID uuid.UUID, version string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(userID), version, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
