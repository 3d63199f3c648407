package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/widget"
)

type gaugeSpy struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeSpy) SetActiveSessions(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()

	reg := NewRegistry(config.SessionsConfig{IdleTTL: 60, ReapInterval: 1}, func() *widget.Controller {
		return widget.NewController(nil, zaptest.NewLogger(t))
	}, zaptest.NewLogger(t))

	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	return reg, &now
}

func TestCreateAndGet(t *testing.T) {
	reg, _ := newTestRegistry(t)
	gauge := &gaugeSpy{}
	reg.SetGaugeRecorder(gauge)

	s := reg.Create()
	require.NotEmpty(t, s.ID)
	require.NotNil(t, s.Controller)
	assert.Equal(t, 1, gauge.last)

	got, err := reg.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetExpiredSession(t *testing.T) {
	reg, now := newTestRegistry(t)

	s := reg.Create()
	*now = now.Add(2 * time.Minute)

	_, err := reg.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, reg.Stats()["sessions"])
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	reg, now := newTestRegistry(t)

	s := reg.Create()
	*now = now.Add(45 * time.Second)
	_, err := reg.Get(s.ID)
	require.NoError(t, err)

	*now = now.Add(45 * time.Second)
	_, err = reg.Get(s.ID)
	assert.NoError(t, err)
}

func TestReap(t *testing.T) {
	reg, now := newTestRegistry(t)
	gauge := &gaugeSpy{}
	reg.SetGaugeRecorder(gauge)

	old := reg.Create()
	*now = now.Add(50 * time.Second)
	fresh := reg.Create()
	*now = now.Add(20 * time.Second)

	assert.Equal(t, 1, reg.Reap())
	assert.Equal(t, 1, gauge.last)

	_, err := reg.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = reg.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	reg, _ := newTestRegistry(t)

	s := reg.Create()
	assert.True(t, reg.Delete(s.ID))
	assert.False(t, reg.Delete(s.ID))
}

func TestStats(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Create()
	reg.Create()

	stats := reg.Stats()
	assert.Equal(t, 2, stats["sessions"])
	assert.Equal(t, "1m0s", stats["idle_ttl"])
}

func TestStartStopLifecycle(t *testing.T) {
	reg, _ := newTestRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	require.NoError(t, reg.Stop(shutdownCtx))
	// a second Stop is harmless
	require.NoError(t, reg.Stop(shutdownCtx))
}
