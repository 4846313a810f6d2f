// tokens выпускает и проверяет подписанные JWT двух типов: access и refresh.
//
// Каждый тип подписывается своим секретом (HS256) и несёт собственную аудиторию,
// поэтому токен одного типа не проходит проверку как токен другого.
// Проверка «закрыта по умолчанию»: любая проблема (подпись, алгоритм, формат,
// истечение срока) превращается в ErrInvalidToken.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/painter-gallery/internal/config"
	"github.com/pribylovaa/painter-gallery/internal/models"
)

// ErrInvalidToken — токен некорректен по подписи/формату или истёк.
var ErrInvalidToken = errors.New("invalid token")

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

type accessClaims struct {
	TokenVersion string `json:"tv"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	TokenVersion   string `json:"tv"`
	RefreshTokenID string `json:"rti"`
	jwt.RegisteredClaims
}

// Access — проверенное содержимое access-токена.
type Access struct {
	UserID       uuid.UUID
	TokenVersion string
	ExpiresAt    time.Time
}

// Refresh — проверенное содержимое refresh-токена.
type Refresh struct {
	UserID         uuid.UUID
	TokenVersion   string
	RefreshTokenID uuid.UUID
	ExpiresAt      time.Time
}

// Manager подписывает и проверяет токены. Безопасен для конкурентного использования.
type Manager struct {
	cfg config.AuthConfig
	now func() time.Time
}

// Option настраивает Manager.
type Option func(*Manager)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager создаёт Manager с секретами и TTL из конфигурации.
func NewManager(cfg config.AuthConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AccessTTL возвращает время жизни access-токена.
func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTokenTTL }

// RefreshTTL возвращает время жизни refresh-токена.
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTokenTTL }

// SignAccessToken выпускает access-токен: sub=user.ID, tv=user.TokenVersion.
func (m *Manager) SignAccessToken(user *models.User) (string, time.Time, error) {
	const op = "tokens.SignAccessToken"

	now := m.now()
	exp := now.Add(m.cfg.AccessTokenTTL)

	claims := accessClaims{
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: m.registered(user.ID, audienceAccess, now, exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.AccessSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, exp, nil
}

// SignRefreshToken выпускает refresh-токен, привязанный к записи record.
func (m *Manager) SignRefreshToken(user *models.User, record *models.RefreshToken) (string, time.Time, error) {
	const op = "tokens.SignRefreshToken"

	now := m.now()
	exp := now.Add(m.cfg.RefreshTokenTTL)

	claims := refreshClaims{
		TokenVersion:     user.TokenVersion,
		RefreshTokenID:   record.ID.String(),
		RegisteredClaims: m.registered(user.ID, audienceRefresh, now, exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.RefreshSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, exp, nil
}

// VerifyAccessToken проверяет подпись и срок access-токена.
func (m *Manager) VerifyAccessToken(tokenStr string) (*Access, error) {
	const op = "tokens.VerifyAccessToken"

	var claims accessClaims
	if err := m.parse(tokenStr, &claims, m.cfg.AccessSecret, audienceAccess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &Access{
		UserID:       uid,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// VerifyRefreshToken проверяет подпись и срок refresh-токена.
func (m *Manager) VerifyRefreshToken(tokenStr string) (*Refresh, error) {
	const op = "tokens.VerifyRefreshToken"

	var claims refreshClaims
	if err := m.parse(tokenStr, &claims, m.cfg.RefreshSecret, audienceRefresh); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	rid, err := uuid.Parse(claims.RefreshTokenID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &Refresh{
		UserID:         uid,
		TokenVersion:   claims.TokenVersion,
		RefreshTokenID: rid,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}

func (m *Manager) registered(userID uuid.UUID, audience string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    m.cfg.Issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

// parse разбирает токен и сводит любую ошибку библиотеки к ErrInvalidToken.
func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret, audience string) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
