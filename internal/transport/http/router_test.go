package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/painter-gallery/internal/config"
	"github.com/pribylovaa/painter-gallery/internal/service"
	"github.com/pribylovaa/painter-gallery/internal/storage/memory"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
	"github.com/pribylovaa/painter-gallery/internal/transport/http/handlers"
)

const cookieName = "refresh_token"

type env struct {
	h  http.Handler
	st *memory.Storage
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st := memory.New()
	tm := tokens.NewManager(config.AuthConfig{
		AccessSecret:    "router-access-secret",
		RefreshSecret:   "router-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "painter-gallery",
	})

	h := NewRouter(service.New(st, tm), Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: "/api",
		Cookie: config.CookieConfig{
			Name: cookieName,
			Path: "/api/auth",
		},
	})

	return &env{h: h, st: st}
}

type reqOpt func(*http.Request)

func withBearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(value string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookieName, Value: value}) }
}

func (e *env) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}

	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	return rr
}

func decodeAuth(t *testing.T, rr *httptest.ResponseRecorder) handlers.AuthResponse {
	t.Helper()
	var out handlers.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotEmpty(t, env.Error.RequestID)
	return env.Error.Code
}

func refreshCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("cookie %q not set", cookieName)
	return nil
}

func register(t *testing.T, e *env, email string) handlers.AuthResponse {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeAuth(t, rr)
}

func TestRouter_RegisterSetsCookie(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	rr := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "painter@example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	out := decodeAuth(t, rr)
	require.NotEmpty(t, out.UserID)
	require.NotEmpty(t, out.AccessToken)

	c := refreshCookie(t, rr)
	require.Equal(t, out.RefreshToken, c.Value)
	require.True(t, c.HttpOnly)
	require.Equal(t, "/api/auth", c.Path)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge)

	require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestRouter_RegisterErrors(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	register(t, e, "taken@example.com")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"broken json", "{", http.StatusBadRequest, "invalid_argument"},
		{"unknown field", `{"email":"a@b.c","password":"Abcdef1!","admin":true}`, http.StatusBadRequest, "invalid_argument"},
		{"bad email", map[string]string{"email": "nope", "password": "Abcdef1!"}, http.StatusBadRequest, "invalid_argument"},
		{"weak password", map[string]string{"email": "a@b.c", "password": "weak"}, http.StatusBadRequest, "invalid_argument"},
		{"taken", map[string]string{"email": "TAKEN@example.com", "password": "Abcdef1!"}, http.StatusConflict, "already_exists"},
	}

	for _, tc := range tests {
		rr := e.do(t, http.MethodPost, "/api/auth/register", tc.body)
		require.Equal(t, tc.status, rr.Code, tc.name)
		require.Equal(t, tc.code, errCode(t, rr), tc.name)
	}
}

func TestRouter_Login(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	reg := register(t, e, "painter@example.com")

	rr := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "painter@example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, reg.UserID, decodeAuth(t, rr).UserID)
	refreshCookie(t, rr)

	rr = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "painter@example.com",
		"password": "Wrong1!pw",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid_credentials", errCode(t, rr))
}

func TestRouter_RefreshRotationAndReplay(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	first := register(t, e, "painter@example.com")

	// Обмен по cookie.
	rr := e.do(t, http.MethodPost, "/api/auth/refresh", nil, withCookie(first.RefreshToken))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	second := decodeAuth(t, rr)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.Equal(t, second.RefreshToken, refreshCookie(t, rr).Value)

	// Повтор старого токена через тело: 401 и очистка cookie.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": first.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", errCode(t, rr))
	require.Equal(t, -1, refreshCookie(t, rr).MaxAge)

	// Семейство очищено: свежий токен тоже не обменивается.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", nil, withCookie(second.RefreshToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_RefreshInputErrors(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	rr := e.do(t, http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": ""})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/refresh", `{"token":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": "garbage"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", errCode(t, rr))
}

func TestRouter_MeAndLogout(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	reg := register(t, e, "painter@example.com")

	rr := e.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code)
	var me handlers.MeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	require.Equal(t, reg.UserID, me.UserID)
	require.Equal(t, reg.AccessExpiresAt, me.ExpiresAt)

	// Refresh-токен не подходит как access.
	rr = e.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(reg.RefreshToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/logout", nil, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, -1, refreshCookie(t, rr).MaxAge)

	rr = e.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/refresh", nil, withCookie(reg.RefreshToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/auth/logout", nil, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_ChangePassword(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	reg := register(t, e, "painter@example.com")

	rr := e.do(t, http.MethodPost, "/api/auth/password", map[string]string{
		"old_password": "Wrong1!pw",
		"new_password": "Zyxwvu2?",
	}, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid_credentials", errCode(t, rr))

	rr = e.do(t, http.MethodPost, "/api/auth/password", map[string]string{
		"old_password": "Abcdef1!",
		"new_password": "Zyxwvu2?",
	}, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	fresh := decodeAuth(t, rr)
	require.Equal(t, reg.UserID, fresh.UserID)

	rr = e.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(reg.AccessToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(fresh.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_WithoutBasePath(t *testing.T) {
	t.Parallel()

	h := NewRouter(service.New(memory.New(), tokens.NewManager(config.AuthConfig{
		AccessSecret:    "a",
		RefreshSecret:   "b",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "painter-gallery",
	})), Options{Cookie: config.CookieConfig{Name: cookieName, Path: "/auth"}})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
