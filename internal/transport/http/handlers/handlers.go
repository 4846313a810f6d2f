// handlers реализует REST-эндпойнты auth-сервиса поверх service.Service.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/painter-gallery/internal/config"
	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/service"
)

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc    *service.Service
	cookie config.CookieConfig
}

func New(svc *service.Service, cookie config.CookieConfig) *Handlers {
	return &Handlers{svc: svc, cookie: cookie}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// setRefreshCookie кладёт refresh-токен в HttpOnly-cookie на путь обновления.
// Время жизни cookie совпадает с TTL refresh-токена.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    pair.RefreshToken,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.svc.Tokens().RefreshTTL().Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie просит клиента удалить refresh-cookie.
func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
