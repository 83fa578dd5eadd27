package session

import (
	"sync"
	"testing"
	"time"
)

func TestStoreLazyCreate(t *testing.T) {
	s := New(time.Hour)
	defer s.Close()

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	s.Do(1, func(sess *Session) {
		if sess.Active() {
			t.Fatal("fresh session should be idle")
		}
		if len(sess.Data) != 0 {
			t.Fatal("idle session must have empty data")
		}
	})
	if s.Len() != 1 {
		t.Fatalf("expected one session, got %d", s.Len())
	}
	// Same user gets the same session, not a duplicate.
	s.Do(1, func(sess *Session) { sess.Begin("weather") })
	if s.Len() != 1 {
		t.Fatalf("expected one session after Begin, got %d", s.Len())
	}
	if !s.InProgress(1) {
		t.Fatal("expected flow in progress")
	}
}

func TestBeginClearsLeftoverData(t *testing.T) {
	s := New(time.Hour)
	defer s.Close()

	s.Do(7, func(sess *Session) {
		sess.Begin("exchange")
		sess.Data["fromCurrency"] = "EUR"
		sess.Step = 1
	})
	s.Do(7, func(sess *Session) {
		sess.Begin("poll")
		if sess.Step != 0 {
			t.Fatalf("Begin should reset step, got %d", sess.Step)
		}
		if len(sess.Data) != 0 {
			t.Fatalf("Begin should clear data, got %v", sess.Data)
		}
	})
}

func TestResetReturnsToIdle(t *testing.T) {
	s := New(time.Hour)
	defer s.Close()

	s.Do(3, func(sess *Session) {
		sess.Begin("weather")
		sess.Data["city"] = "Москва"
		sess.Reset()
		if sess.Active() {
			t.Fatal("session should be idle after Reset")
		}
		if len(sess.Data) != 0 {
			t.Fatal("Reset must clear data")
		}
	})
	if s.InProgress(3) {
		t.Fatal("InProgress should be false after Reset")
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s := New(time.Minute)
	defer s.Close()

	s.Do(1, func(sess *Session) {})
	s.Do(2, func(sess *Session) { sess.Begin("poll") })

	// Age the first session past the TTL.
	s.mu.Lock()
	s.sessions[1].UpdatedAt = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	if n := s.sweep(time.Now()); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", s.Len())
	}
	if !s.InProgress(2) {
		t.Fatal("recent session must survive the sweep")
	}
}

func TestSweepSkipsBusySession(t *testing.T) {
	s := New(time.Minute)
	defer s.Close()

	s.Do(5, func(sess *Session) {})
	s.mu.Lock()
	sess := s.sessions[5]
	sess.UpdatedAt = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	sess.mu.Lock()
	if n := s.sweep(time.Now()); n != 0 {
		t.Fatalf("busy session must not be evicted, got %d", n)
	}
	sess.mu.Unlock()

	if n := s.sweep(time.Now()); n != 1 {
		t.Fatalf("expected eviction after release, got %d", n)
	}
}

func TestDoIgnoresEvictedSession(t *testing.T) {
	s := New(time.Minute)
	defer s.Close()

	// Evict the session after it has been looked up, as the reaper can
	// between a lookup and the lock acquisition in Do.
	orphan := s.get(1)
	orphan.UpdatedAt = time.Now().Add(-2 * time.Minute)
	if n := s.sweep(time.Now()); n != 1 {
		t.Fatalf("expected eviction, got %d", n)
	}

	s.Do(1, func(sess *Session) {
		if sess == orphan {
			t.Fatal("Do ran on an evicted session")
		}
		sess.Begin("weather")
	})
	if !s.InProgress(1) {
		t.Fatal("flow start lost to eviction")
	}
}

func TestDoMutatesOnlyLiveSessionUnderSweepPressure(t *testing.T) {
	s := New(time.Minute)
	defer s.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			s.mu.Lock()
			if sess, ok := s.sessions[8]; ok && sess.mu.TryLock() {
				sess.UpdatedAt = time.Time{}
				sess.mu.Unlock()
			}
			s.mu.Unlock()
			s.sweep(time.Now())
		}
	}()

	for i := 0; i < 500; i++ {
		s.Do(8, func(sess *Session) {
			sess.Begin("weather")
			s.mu.Lock()
			live := s.sessions[8]
			s.mu.Unlock()
			if live != sess {
				t.Error("Do mutated a session the store no longer owns")
			}
		})
	}
	close(stop)
	wg.Wait()
}

func TestDoSerializesPerUser(t *testing.T) {
	s := New(time.Hour)
	defer s.Close()

	const rounds = 100
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				s.Do(9, func(sess *Session) {
					sess.Step++
				})
			}
		}()
	}
	wg.Wait()

	s.Do(9, func(sess *Session) {
		if sess.Step != 2*rounds {
			t.Fatalf("lost updates: step = %d, want %d", sess.Step, 2*rounds)
		}
	})
}
