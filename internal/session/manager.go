// Package session keeps one server-side page per browser page load and
// relays the page's events and effects over a WebSocket.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadkadry99/pixlet/internal/bootstrap"
	"github.com/ziadkadry99/pixlet/internal/dom"
	"github.com/ziadkadry99/pixlet/internal/navigation"
	"github.com/ziadkadry99/pixlet/internal/util"
)

var (
	// ErrNotFound is returned for an unknown or expired session.
	ErrNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when every session slot holds a
	// connected page.
	ErrTooManySessions = errors.New("too many live sessions")
)

const (
	defaultTTL          = 30 * time.Minute
	defaultConnectGrace = time.Minute
	defaultMaxSessions  = 1000
)

// Config controls how pages are built and how long they live.
type Config struct {
	Page         bootstrap.Options
	AutoOpenHome bool
	// TTL is how long a disconnected page may be idle before it is pruned.
	TTL time.Duration
	// ConnectGrace is how long a page that never connected is kept.
	ConnectGrace time.Duration
	// MaxSessions caps live sessions. At the cap the least recently seen
	// disconnected page is evicted.
	MaxSessions int
}

// Manager owns the live sessions.
type Manager struct {
	cfg       Config
	nav       *navigation.Navigator
	suggester bootstrap.Suggester
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithSuggester enables search suggestions on every page.
func WithSuggester(s bootstrap.Suggester) Option {
	return func(m *Manager) { m.suggester = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager. nav is copied per session with the
// session's socket as its opener.
func NewManager(cfg Config, nav *navigation.Navigator, opts ...Option) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.ConnectGrace <= 0 {
		cfg.ConnectGrace = defaultConnectGrace
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	m := &Manager{
		cfg:      cfg,
		nav:      nav,
		logger:   slog.Default(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create builds a new page and registers its session.
func (m *Manager) Create() (*Session, error) {
	now := m.now()
	m.Prune(now)

	s := &Session{
		createdAt: now,
		lastSeen:  now,
		doc:       dom.NewDocument(),
		logger:    m.logger,
	}

	bootOpts := []bootstrap.Option{
		bootstrap.WithOptions(m.cfg.Page),
		bootstrap.WithLogger(m.logger),
	}
	if m.suggester != nil {
		bootOpts = append(bootOpts, bootstrap.WithSuggester(m.suggester))
	}
	s.boot = bootstrap.New(s.doc, m.nav.WithOpener(s), s, bootOpts...)

	if err := s.boot.Start(); err != nil {
		return nil, fmt.Errorf("starting bootstrap: %w", err)
	}
	if err := s.doc.Ready(); err != nil {
		return nil, fmt.Errorf("signalling ready: %w", err)
	}

	m.mu.Lock()
	var evicted *Session
	if len(m.sessions) >= m.cfg.MaxSessions {
		evicted = m.oldestIdleLocked()
		if evicted == nil {
			m.mu.Unlock()
			s.boot.Close()
			return nil, ErrTooManySessions
		}
		delete(m.sessions, evicted.id)
	}
	id := util.GenerateUniqueID()
	for m.sessions[id] != nil {
		id = util.GenerateUniqueID()
	}
	s.id = id
	m.sessions[id] = s
	m.mu.Unlock()

	if evicted != nil {
		evicted.close()
		m.logger.Info("evicted page session at capacity", "session", evicted.id, "max", m.cfg.MaxSessions)
	}
	m.logger.Debug("page session created", "session", s.id)
	return s, nil
}

// oldestIdleLocked returns the least recently seen disconnected session.
func (m *Manager) oldestIdleLocked() *Session {
	var oldest *Session
	for _, s := range m.sessions {
		if s.Connected() {
			continue
		}
		if oldest == nil || s.LastSeen().Before(oldest.LastSeen()) {
			oldest = s
		}
	}
	return oldest
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove tears a session down.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.close()
		m.logger.Debug("page session removed", "session", id)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune removes disconnected sessions idle longer than the TTL and pages
// that never connected within the connect grace. It returns the number
// removed.
func (m *Manager) Prune(now time.Time) int {
	var stale []string
	m.mu.Lock()
	for id, s := range m.sessions {
		if m.expired(s, now) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	for _, id := range stale {
		m.Remove(id)
	}
	return len(stale)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	if s.Connected() {
		return false
	}
	if !s.everAttached() && now.Sub(s.CreatedAt()) > m.cfg.ConnectGrace {
		return true
	}
	return now.Sub(s.LastSeen()) > m.cfg.TTL
}

// Run prunes idle sessions periodically until ctx is cancelled, then
// removes every remaining session.
func (m *Manager) Run(ctx context.Context) {
	interval := min(m.cfg.TTL, m.cfg.ConnectGrace) / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			if n := m.Prune(m.now()); n > 0 {
				m.logger.Info("pruned idle page sessions", "count", n)
			}
		}
	}
}

func (m *Manager) closeAll() {
	for _, id := range m.ids() {
		m.Remove(id)
	}
}

func (m *Manager) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// userMessage turns a navigation failure into text for the page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, navigation.ErrHostNotAllowed):
		return "That destination is not allowed."
	case errors.Is(err, navigation.ErrEmptyQuery):
		return bootstrap.EmptyQueryMessage
	default:
		return "Could not open the page. Please try again."
	}
}
