// Package session holds per-user dialog sessions for the bot.
// At most one session exists per user; sessions are created lazily and
// evicted by a background reaper once idle for longer than the TTL.
package session

import (
	"log/slog"
	"sync"
	"time"

	"funbot/core/logger"
)

// Session is the per-user record of the active flow and collected input.
// Flow is empty when the user has no active dialog; an idle session always
// carries an empty Data map.
type Session struct {
	UserID    int64
	Flow      string
	Step      int
	Data      map[string]string
	UpdatedAt time.Time

	mu sync.Mutex
}

// Begin switches the session to the given flow at step zero, discarding
// anything collected before.
func (s *Session) Begin(flow string) {
	s.Flow = flow
	s.Step = 0
	s.Data = make(map[string]string)
}

// Reset returns the session to idle and clears collected data.
func (s *Session) Reset() {
	s.Flow = ""
	s.Step = 0
	s.Data = make(map[string]string)
}

// Active reports whether a multi-step flow is in progress.
func (s *Session) Active() bool {
	return s.Flow != ""
}

// Store is an in-memory session store keyed by user ID.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

const (
	defaultTTL    = 30 * time.Minute
	sweepInterval = time.Minute
)

// New creates a store and starts the idle-session reaper.
// A ttl of zero selects the default (30 minutes).
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.reap()
	return s
}

// Do runs fn with the user's session under that user's exclusive lock.
// The lock is held for the whole call, including any provider round trips
// made inside fn, so two rapid messages from one user cannot interleave.
func (s *Store) Do(userID int64, fn func(*Session)) {
	for {
		sess := s.get(userID)
		sess.mu.Lock()
		if s.live(userID, sess) {
			fn(sess)
			sess.UpdatedAt = time.Now()
			sess.mu.Unlock()
			return
		}
		// The reaper evicted this session between lookup and lock;
		// the map holds (or will create) a fresh one.
		sess.mu.Unlock()
	}
}

// live reports whether sess is still the session registered for userID.
// Checked under the session lock so the sweep cannot evict it afterwards.
func (s *Store) live(userID int64, sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID] == sess
}

// InProgress reports whether the user currently has an active flow.
func (s *Store) InProgress(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return ok && sess.Flow != ""
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the reaper and waits for it to finish.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

func (s *Store) get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{
			UserID:    userID,
			Data:      make(map[string]string),
			UpdatedAt: time.Now(),
		}
		s.sessions[userID] = sess
	}
	return sess
}

func (s *Store) reap() {
	defer s.wg.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if n := s.sweep(now); n > 0 {
				logger.Debug(logger.Background(), "session", "reap",
					slog.Int("count", n),
				)
			}
		}
	}
}

// sweep evicts sessions idle beyond the TTL and returns how many were removed.
// Sessions currently being handled are skipped and picked up on a later pass.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if now.Sub(sess.UpdatedAt) < s.ttl {
			sess.mu.Unlock()
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		evicted++
	}
	return evicted
}
