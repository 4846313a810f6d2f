package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
	"github.com/pribylovaa/painter-gallery/internal/service"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
	apierrors "github.com/pribylovaa/painter-gallery/internal/transport/http/errors"
)

type ctxKeyAccess struct{}

// Authenticator проверяет access-токен вместе с версией токенов пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*tokens.Access, error)
}

// AuthBearer требует заголовок "Authorization: Bearer <access token>".
// Проверенные claims кладутся в контекст (см. AccessFrom); при отсутствии
// или недействительности токена запрос завершается 401.
func AuthBearer(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				apierrors.WriteError(w, r, service.ErrUnauthenticated)
				return
			}

			claims, err := a.Authenticate(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAccess{}, claims)
			ctx = log.With(ctx, slog.String("user_id", claims.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessFrom возвращает claims, положенные AuthBearer.
func AccessFrom(ctx context.Context) (*tokens.Access, bool) {
	claims, ok := ctx.Value(ctxKeyAccess{}).(*tokens.Access)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
