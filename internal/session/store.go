package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps the live sessions in memory. Nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	fetcher  *Fetcher
	ttl      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewStore(fetcher *Fetcher, ttl time.Duration) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		sessions: make(map[string]*Session),
		fetcher:  fetcher,
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (st *Store) TTL() time.Duration {
	return st.ttl
}

func (st *Store) Create() *Session {
	s := New(st.ctx, uuid.NewString(), st.fetcher)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := time.Now()
	if st.ttl > 0 && s.expired(now, st.ttl) {
		st.remove(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Delete closes and drops a session. Unknown ids are ignored.
func (st *Store) Delete(id string) {
	st.remove(id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep closes and drops expired sessions, returning how many were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := time.Now()

	st.mu.RLock()
	var stale []string
	for id, s := range st.sessions {
		if s.expired(now, st.ttl) {
			stale = append(stale, id)
		}
	}
	st.mu.RUnlock()

	for _, id := range stale {
		st.remove(id)
	}
	return len(stale)
}

// RunJanitor sweeps every interval until ctx ends.
func (st *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.Printf("expired %d idle sessions", n)
			}
		}
	}
}

// Close cancels every in-flight fetch and closes all sessions.
func (st *Store) Close() {
	st.cancel()

	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (st *Store) remove(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Close()
	}
}
