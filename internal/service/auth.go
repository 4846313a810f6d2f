package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
	"github.com/pribylovaa/painter-gallery/internal/pkg/redact"
	"github.com/pribylovaa/painter-gallery/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя и выпускает ему пару токенов.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.RegisterUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx).With(slog.String("email", redact.Email(normEmail)))

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		lg.Error("register_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		TokenVersion: uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUniqueConstraint) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		lg.Error("register_save_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_registered", slog.String("user_id", user.ID.String()))

	return pair, user, nil
}

// LoginUser выполняет вход по email+пароль.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	lg := log.From(ctx).With(slog.String("email", redact.Email(normEmail)))

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("login_failed", slog.String("reason", "unknown_email"))
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("login_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		lg.Info("login_failed", slog.String("reason", "wrong_password"))
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// ChangePassword меняет пароль пользователя и завершает все его сессии.
// Возвращает новую пару токенов для текущего клиента.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (*models.TokenPair, error) {
	const op = "service.ChangePassword"

	lg := log.From(ctx).With(slog.String("user_id", userID.String()))

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("password_user_lookup_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := validatePassword(newPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	if err := s.storage.UpdatePassword(ctx, userID, hashedPassword, s.now()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("password_update_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	version, err := s.rotateTokenVersion(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.PasswordHash = hashedPassword
	user.TokenVersion = version

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("password_changed")

	return pair, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и приводит его к нижнему регистру.
func validateEmail(raw string) (string, error) {
	const op = "service.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю:
// длина >= 8 символов, строчная и заглавная буквы, цифра, спецсимвол.
func validatePassword(pw string) error {
	const op = "service.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
