package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// DefaultCleanupInterval is how often expired sessions are swept
const DefaultCleanupInterval = 10 * time.Minute

// entry is one stored session with its expiration
type entry struct {
	data       []byte
	expiration time.Time
}

// MemorySessionStore is a thread-safe in-memory session store with TTL support.
// Sessions are stored as JSON so callers never share memory with the store.
type MemorySessionStore struct {
	data  map[string]entry
	mutex sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

var _ domain.SessionRepository = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a store and starts its cleanup goroutine.
// Call Close to stop it.
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	s := &MemorySessionStore{
		data: make(map[string]entry),
		stop: make(chan struct{}),
		now:  time.Now,
	}
	go s.cleanupExpired(cleanupInterval)
	return s
}

// Get retrieves a session
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.SplitSession, error) {
	s.mutex.RLock()
	e, exists := s.data[id]
	s.mutex.RUnlock()

	if !exists || s.now().After(e.expiration) {
		return nil, domain.ErrCacheMiss
	}

	var session domain.SplitSession
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

// Save stores a session with TTL
func (s *MemorySessionStore) Save(ctx context.Context, session *domain.SplitSession, ttl time.Duration) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidRequest
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[session.ID] = entry{data: data, expiration: s.now().Add(ttl)}
	return nil
}

// Delete removes a session
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// cleanupExpired removes expired sessions periodically
func (s *MemorySessionStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemorySessionStore) sweep() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := s.now()
	for id, e := range s.data {
		if now.After(e.expiration) {
			delete(s.data, id)
		}
	}
}

// Close stops the cleanup goroutine
func (s *MemorySessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Size returns the current number of stored sessions (for debugging/monitoring)
func (s *MemorySessionStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
