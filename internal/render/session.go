package render

import (
	"sync"
	"time"

	"waterglobe/domain/core"
	"waterglobe/domain/water"
	"waterglobe/internal"
)

// Bundle is the output of one render: both charts for one country.
type Bundle struct {
	SessionID core.SessionID `json:"sessionId"`
	Country   string         `json:"country"`
	Reserve   ChartSpec      `json:"reserve"`
	Usage     ChartSpec      `json:"usage"`
}

// Session owns the two charts of one panel update. Rendering again first
// tears down the previous charts.
type Session struct {
	ID        core.SessionID
	CreatedAt time.Time

	mu      sync.Mutex
	reserve *ChartSpec
	usage   *ChartSpec
	closed  bool
}

// NewSession opens an empty render session.
func NewSession() *Session {
	return &Session{
		ID:        core.NewSessionID(),
		CreatedAt: time.Now(),
	}
}

// Render builds both charts for name. It fails on a closed session.
func (s *Session) Render(name string, series water.Series) (Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Bundle{}, core.ErrSessionClosed
	}
	s.teardownLocked()

	reserve := ReserveChart(name, series)
	usage := UsageChart(name, series)
	s.reserve, s.usage = &reserve, &usage

	return Bundle{
		SessionID: s.ID,
		Country:   name,
		Reserve:   reserve,
		Usage:     usage,
	}, nil
}

// Active reports whether the session currently holds charts.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserve != nil || s.usage != nil
}

// Teardown drops the charts but leaves the session usable.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// Close tears down and rejects further renders. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.closed = true
}

func (s *Session) teardownLocked() {
	s.reserve = nil
	s.usage = nil
}

// Defaults for Manager eviction.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Manager tracks the live session of each client so a new selection
// always tears down the previous one. Sessions idle longer than the TTL
// are evicted, and the oldest session goes first once the map is full.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	ttl       time.Duration
	max       int
	now       func() time.Time
	lastSweep time.Time
	logger    *internal.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithSessionTTL sets how long a client's session may stay idle.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// WithManagerClock overrides time.Now.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty session manager
func NewManager(logger *internal.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
		logger:   logger.Component("RenderSessions"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin closes the client's previous session, if any, and opens a new one.
func (m *Manager) Begin(client string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if prev, ok := m.sessions[client]; ok {
		prev.Close()
		delete(m.sessions, client)
		m.logger.Debug("closed session %s for client %s", prev.ID, client)
	}
	m.evictLocked(now)

	s := NewSession()
	s.CreatedAt = now
	m.sessions[client] = s
	m.logger.Trace("opened session %s for client %s", s.ID, client)
	return s
}

// evictLocked drops expired sessions, at most once per quarter TTL, then
// the oldest sessions until there is room for one more.
func (m *Manager) evictLocked(now time.Time) {
	if now.Sub(m.lastSweep) >= m.ttl/4 {
		m.lastSweep = now
		for client, s := range m.sessions {
			if now.Sub(s.CreatedAt) > m.ttl {
				s.Close()
				delete(m.sessions, client)
			}
		}
	}

	for len(m.sessions) >= m.max {
		var (
			oldestClient string
			oldest       *Session
		)
		for client, s := range m.sessions {
			if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
				oldestClient, oldest = client, s
			}
		}
		oldest.Close()
		delete(m.sessions, oldestClient)
		m.logger.Debug("evicted session %s, %d sessions live", oldest.ID, len(m.sessions))
	}
}

// End closes and forgets the client's session, as the panel reset does.
func (m *Manager) End(client string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[client]; ok {
		s.Close()
		delete(m.sessions, client)
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
