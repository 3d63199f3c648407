// Package session keeps the widget controllers behind the HTTP surface.
// Sessions live in memory only and expire after an idle period.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/widget"
)

var ErrNotFound = errors.New("session not found")

// Factory builds the controller for a new session.
type Factory func() *widget.Controller

// GaugeRecorder receives the live session count after every change.
type GaugeRecorder interface {
	SetActiveSessions(n int)
}

type Session struct {
	ID         string
	Controller *widget.Controller
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Registry struct {
	factory      Factory
	sessions     map[string]*Session
	mutex        sync.RWMutex
	idleTTL      time.Duration
	reapInterval time.Duration
	logger       *zap.Logger
	gauge        GaugeRecorder
	now          func() time.Time

	shutdownCh chan struct{}
	stopOnce   sync.Once
	reaperWg   sync.WaitGroup
}

func NewRegistry(cfg config.SessionsConfig, factory Factory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factory:      factory,
		sessions:     make(map[string]*Session),
		idleTTL:      time.Duration(cfg.IdleTTL) * time.Second,
		reapInterval: time.Duration(cfg.ReapInterval) * time.Second,
		logger:       logger,
		now:          time.Now,
		shutdownCh:   make(chan struct{}),
	}
}

func (r *Registry) SetGaugeRecorder(gauge GaugeRecorder) {
	r.gauge = gauge
}

func (r *Registry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:         uuid.New().String(),
		Controller: r.factory(),
		CreatedAt:  now,
		lastSeen:   now,
	}

	r.mutex.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mutex.Unlock()

	r.report(n)
	r.logger.Debug("Session created", zap.String("session_id", s.ID))
	return s
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mutex.RLock()
	s, ok := r.sessions[id]
	r.mutex.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	now := r.now()
	if now.Sub(s.LastSeen()) > r.idleTTL {
		r.Delete(id)
		return nil, ErrNotFound
	}

	s.touch(now)
	return s, nil
}

func (r *Registry) Delete(id string) bool {
	r.mutex.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mutex.Unlock()

	if ok {
		r.report(n)
		r.logger.Debug("Session deleted", zap.String("session_id", id))
	}
	return ok
}

// Reap drops every session idle longer than the TTL and returns how many went.
func (r *Registry) Reap() int {
	now := r.now()

	r.mutex.Lock()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.LastSeen()) > r.idleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mutex.Unlock()

	if removed > 0 {
		r.report(n)
		r.logger.Info("Expired idle sessions", zap.Int("removed", removed), zap.Int("remaining", n))
	}
	return removed
}

func (r *Registry) Stats() map[string]interface{} {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return map[string]interface{}{
		"sessions": len(r.sessions),
		"idle_ttl": r.idleTTL.String(),
	}
}

// Start runs the reaper until Stop is called or ctx is done.
func (r *Registry) Start(ctx context.Context) {
	r.reaperWg.Add(1)
	go r.reap(ctx)
}

func (r *Registry) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.shutdownCh) })

	done := make(chan struct{})
	go func() {
		r.reaperWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) reap(ctx context.Context) {
	defer r.reaperWg.Done()

	ticker := time.NewTicker(r.reapInterval)
	defer ticker.Stop()

	r.logger.Info("Session reaper started", zap.Duration("interval", r.reapInterval))

	for {
		select {
		case <-ticker.C:
			r.Reap()
		case <-r.shutdownCh:
			r.logger.Info("Shutdown signal received, session reaper stopping")
			return
		case <-ctx.Done():
			r.logger.Info("Context cancelled, session reaper stopping")
			return
		}
	}
}

func (r *Registry) report(n int) {
	if r.gauge != nil {
		r.gauge.SetActiveSessions(n)
	}
}
