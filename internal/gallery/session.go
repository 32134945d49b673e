package gallery

import (
	"sync"
	"time"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/metrics"

	"github.com/google/uuid"
)

// Session is one viewer's gallery position and layout.
type Session struct {
	ID       string
	State    State
	Settings Settings
	LastSeen time.Time
}

// SessionStore keeps sessions in memory, keyed by an opaque random ID.
// Sessions idle for longer than the TTL are dropped by Cleanup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	// locks serialize Update calls per session.
	locks    map[string]*sync.Mutex
	ttl      time.Duration
	defaults Settings
	now      func() time.Time
}

// NewSessionStore creates a store whose new sessions start with defaults.
func NewSessionStore(ttl time.Duration, defaults Settings) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
		ttl:      ttl,
		defaults: defaults,
		now:      time.Now,
	}
}

// Defaults returns the settings new sessions start with.
func (s *SessionStore) Defaults() Settings {
	return s.defaults
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired. created reports which.
func (s *SessionStore) GetOrCreate(id string) (sess Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.sessions[id]; ok && !s.expired(existing, now) {
		existing.LastSeen = now
		return *existing, false
	}

	fresh := &Session{
		ID:       uuid.NewString(),
		Settings: s.defaults,
		LastSeen: now,
	}
	s.sessions[fresh.ID] = fresh

	metrics.SessionsCreatedTotal.Inc()
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	logging.Debug("Created gallery session %s", fresh.ID)

	return *fresh, true
}

// Get returns the session for id without creating one.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[id]
	if !ok || s.expired(existing, s.now()) {
		return Session{}, false
	}
	return *existing, true
}

// Save stores the state and settings of sess. Saving an unknown ID
// re-registers it.
func (s *SessionStore) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastSeen = s.now()
	s.sessions[sess.ID] = &sess
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

// Update runs fn on session id and saves the result when fn succeeds.
// Updates of the same session run one at a time, so each starts from the
// state the previous one stored. An unknown or expired id starts from the
// default settings.
func (s *SessionStore) Update(id string, fn func(*Session) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, ok := s.Get(id)
	if !ok {
		sess = Session{ID: id, Settings: s.defaults}
	}
	if err := fn(&sess); err != nil {
		return err
	}
	sess.ID = id
	s.Save(sess)
	return nil
}

func (s *SessionStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// Cleanup drops expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			delete(s.locks, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	if removed > 0 {
		logging.Debug("Expired %d gallery sessions, %d active", removed, len(s.sessions))
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) > s.ttl
}
