package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе/регистрации/ротации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — JWT, привязанный к записи models.RefreshToken через её ID;
//   - AccessExpiresAt/RefreshExpiresAt — моменты истечения токенов (UTC).
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
