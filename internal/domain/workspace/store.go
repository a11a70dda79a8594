package workspace

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultIdleTTL is how long an untouched workspace is kept.
const DefaultIdleTTL = 30 * time.Minute

// Store keeps workspaces in memory and evicts idle ones in the background.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*Workspace
	ttl     time.Duration
	nowFunc func() time.Time
	logger  zerolog.Logger
	stop    chan struct{}
	once    sync.Once
}

// NewStore creates a store. If ttl is zero or negative, DefaultIdleTTL is
// used. Call Start to run the eviction loop and Stop to end it.
func NewStore(ttl time.Duration, logger zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Store{
		items:   make(map[string]*Workspace),
		ttl:     ttl,
		nowFunc: time.Now,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// Start runs the eviction loop every interval until Stop.
func (s *Store) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.logger.Info().Int("evicted", n).Msg("idle workspaces evicted")
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Store) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) Create(w *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[w.ID] = w.clone()
}

// Get returns a copy of the workspace.
func (s *Store) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w.clone(), nil
}

// Update applies fn atomically and marks the workspace as seen. If fn
// returns an error the workspace is left unchanged.
func (s *Store) Update(id string, fn func(*Workspace) error) (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := w.clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.LastSeen = s.nowFunc()
	s.items[id] = next
	return next.clone(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Sweep removes workspaces unseen for longer than the TTL and returns how
// many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.nowFunc().Add(-s.ttl)
	n := 0
	for id, w := range s.items {
		if w.LastSeen.Before(cutoff) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
