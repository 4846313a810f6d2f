package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/painter-gallery/internal/config"
	"github.com/pribylovaa/painter-gallery/internal/metrics"
	"github.com/pribylovaa/painter-gallery/internal/models"
	"github.com/pribylovaa/painter-gallery/internal/pkg/log"
	"github.com/pribylovaa/painter-gallery/internal/storage/memory"
	"github.com/pribylovaa/painter-gallery/internal/tokens"
	"github.com/pribylovaa/painter-gallery/mocks"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "unit-access-secret",
		RefreshSecret:   "unit-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "painter-gallery",
	}
}

// clock — управляемые часы, общие для менеджера токенов и хранилища.
type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(d)
}

// capHandler собирает все сообщения логгера.
type capHandler struct {
	mu   *sync.Mutex
	msgs *[]string
}

func newCapLogger() (*slog.Logger, func() []string) {
	h := capHandler{mu: &sync.Mutex{}, msgs: &[]string{}}
	return slog.New(h), func() []string {
		h.mu.Lock()
		defer h.mu.Unlock()
		return append([]string(nil), *h.msgs...)
	}
}

func (h capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h capHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.msgs = append(*h.msgs, r.Message)
	return nil
}

func (h capHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h capHandler) WithGroup(string) slog.Handler { return h }

func newSvc(t *testing.T) (*Service, *mocks.MockStorage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	c := &clock{cur: t0}
	svc := New(st, tokens.NewManager(testCfg(), tokens.WithClock(c.now)))
	svc.now = c.now
	return svc, st
}

type memEnv struct {
	svc  *Service
	st   *memory.Storage
	clk  *clock
	reg  *prometheus.Registry
	msgs func() []string
	ctx  context.Context
}

// newMemSvc собирает сервис поверх in-memory хранилища; каждая запись
// получает CreatedAt на секунду позже предыдущей.
func newMemSvc(t *testing.T) *memEnv {
	t.Helper()

	c := &clock{cur: t0}
	storeClock := &clock{cur: t0}
	st := memory.New(memory.WithClock(func() time.Time {
		storeClock.advance(time.Second)
		return storeClock.now()
	}))

	svc := New(st, tokens.NewManager(testCfg(), tokens.WithClock(c.now)))
	svc.now = c.now

	reg := prometheus.NewRegistry()
	svc.SetMetrics(metrics.New(reg))

	logger, msgs := newCapLogger()

	return &memEnv{
		svc:  svc,
		st:   st,
		clk:  c,
		reg:  reg,
		msgs: msgs,
		ctx:  log.Into(context.Background(), logger),
	}
}

func (e *memEnv) seedUser(t *testing.T) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		TokenVersion: uuid.NewString(),
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, e.st.SaveUser(context.Background(), u))
	return u
}

// counter возвращает значение счётчика name с метками labels (0, если его нет).
func (e *memEnv) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := e.reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metricLoop
				}
			}
			return m.GetCounter().GetValue()
		}
	}

	return 0
}

func (e *memEnv) refreshClaims(t *testing.T, token string) *tokens.Refresh {
	t.Helper()
	c, err := e.svc.Tokens().VerifyRefreshToken(token)
	require.NoError(t, err)
	return c
}
