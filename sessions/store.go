package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/swiss-tournament-ui/page"
)

// PageFactory builds the page of a new session. origin is a public id of the
// page, distinct from the session id.
type PageFactory func(ctx context.Context, origin string) *page.Page

// Store keeps one Page per browser session in memory and evicts sessions that
// have been idle longer than the configured timeout. With a session cap, the
// least recently used session makes room for a new one.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry

	ctx     context.Context
	cancel  context.CancelFunc
	newPage PageFactory
	idle    time.Duration
	max     int
	clock   clockwork.Clock
	logger  *slog.Logger
}

type entry struct {
	page     *page.Page
	lastSeen time.Time
}

type StoreOption func(*Store)

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

func NewStore(newPage PageFactory, idle time.Duration, clock clockwork.Clock, logger *slog.Logger, opts ...StoreOption) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sessions: make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
		newPage:  newPage,
		idle:     idle,
		clock:    clock,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the page of an existing session and marks it as used.
func (s *Store) Get(id string) (*page.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.clock.Now()
	return e.page, true
}

// Create starts a new session and returns its id.
func (s *Store) Create() (string, *page.Page) {
	id := uuid.NewString()
	p := s.newPage(s.ctx, uuid.NewString())

	s.mu.Lock()
	var evicted *page.Page
	if s.max > 0 && len(s.sessions) >= s.max {
		evicted = s.evictOldestLocked()
	}
	s.sessions[id] = &entry{page: p, lastSeen: s.clock.Now()}
	total := len(s.sessions)
	s.mu.Unlock()

	if evicted != nil {
		evicted.Close()
		s.logger.Info("session cap reached, least recently used session evicted", slog.Int("max_sessions", s.max))
	}
	s.logger.Debug("session created", slog.Int("sessions", total))
	return id, p
}

// GetOrCreate returns the page for id, or a fresh session when id is unknown.
func (s *Store) GetOrCreate(id string) (string, *page.Page, bool) {
	if id != "" {
		if p, ok := s.Get(id); ok {
			return id, p, false
		}
	}
	newID, p := s.Create()
	return newID, p, true
}

// evictOldestLocked removes the least recently seen session. s.mu must be held.
func (s *Store) evictOldestLocked() *page.Page {
	var (
		oldestID string
		oldest   *entry
	)
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest == nil {
		return nil
	}
	delete(s.sessions, oldestID)
	return oldest.page
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the timeout and returns how many were evicted.
func (s *Store) Sweep() int {
	cutoff := s.clock.Now().Add(-s.idle)
	var evicted []*page.Page

	s.mu.Lock()
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.page)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, p := range evicted {
		p.Close()
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx is done, then closes every session.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("session sweeper started", slog.Duration("interval", interval), slog.Duration("idle_timeout", s.idle))

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return nil
		case <-ticker.Chan():
			if n := s.Sweep(); n > 0 {
				s.logger.Info("idle sessions evicted", slog.Int("evicted", n), slog.Int("remaining", s.Len()))
			}
		}
	}
}

// Close ends every session and cancels their in-flight requests.
func (s *Store) Close() {
	s.mu.Lock()
	pages := make([]*page.Page, 0, len(s.sessions))
	for id, e := range s.sessions {
		pages = append(pages, e.page)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, p := range pages {
		p.Close()
	}
	s.cancel()
}
