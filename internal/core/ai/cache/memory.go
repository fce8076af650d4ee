package cache

import (
	"context"
	"sync"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// memoryStore is the default in-process cache backend: TTL expiry, a cleanup
// goroutine, and oldest-access eviction when full.
type memoryStore struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]memoryEntry
	stats  cacheStats
	done   chan struct{}
}

type memoryEntry struct {
	value      string
	expiresAt  time.Time
	lastAccess time.Time
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

func newMemoryStore(cfg *config.Config) *memoryStore {
	s := &memoryStore{
		config: cfg,
		store:  make(map[string]memoryEntry),
		done:   make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

func (s *memoryStore) get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.store[key]
	if !exists {
		s.stats.misses++
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.store, key)
		s.stats.evictions++
		s.stats.misses++
		return "", false
	}

	entry.lastAccess = time.Now()
	s.store[key] = entry
	s.stats.hits++
	return entry.value, true
}

func (s *memoryStore) set(_ context.Context, key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.store) >= s.config.Cache.MaxSize {
		s.evictOldest()
	}

	now := time.Now()
	s.store[key] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(s.config.Cache.TTL),
		lastAccess: now,
	}
}

// evictOldest removes the least recently accessed entry. Caller holds the lock.
func (s *memoryStore) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range s.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(s.store, oldestKey)
		s.stats.evictions++
	}
}

func (s *memoryStore) startCleanup() {
	ticker := time.NewTicker(s.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *memoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, key)
			removed++
		}
	}
	if removed > 0 {
		s.stats.evictions += int64(removed)
		common.LogDebug("Expired cache entries removed",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.store)),
		)
	}
}

func (s *memoryStore) close() error {
	close(s.done)
	return nil
}
