// Package cache caches generation responses keyed by normalized prompt.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager is a prompt-keyed response cache. Nil when caching is disabled;
// a nil Manager is safe to call and behaves as a permanent miss.
type Manager struct {
	config *config.Config
	store  store
}

type store interface {
	get(ctx context.Context, key string) (string, bool)
	set(ctx context.Context, key string, value string)
	close() error
}

// NewManager creates a cache manager with the configured backend, or nil when
// caching is disabled. A redis backend that cannot be reached falls back to
// the in-memory backend rather than failing startup.
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Response cache disabled")
		return nil
	}

	var s store
	if cfg.Cache.Backend == "redis" {
		rs, err := newRedisStore(cfg)
		if err != nil {
			common.LogWarn("Failed to connect to redis cache, falling back to memory backend",
				zap.Error(err),
				zap.String("addr", cfg.Cache.RedisAddr),
			)
			s = newMemoryStore(cfg)
		} else {
			s = rs
		}
	} else {
		s = newMemoryStore(cfg)
	}

	common.LogInfo("Response cache initialized",
		zap.String("backend", cfg.Cache.Backend),
		zap.Int("max_size", cfg.Cache.MaxSize),
		zap.Duration("ttl", cfg.Cache.TTL),
	)

	return &Manager{config: cfg, store: s}
}

// Get returns the cached response for a prompt, if any.
func (m *Manager) Get(ctx context.Context, prompt string) (string, bool) {
	if m == nil {
		return "", false
	}
	key := cacheKey(prompt)
	value, ok := m.store.get(ctx, key)
	if ok {
		common.LogDebug("Response cache hit", zap.String("key", key))
	} else {
		common.LogDebug("Response cache miss", zap.String("key", key))
	}
	return value, ok
}

// Set stores a response for a prompt.
func (m *Manager) Set(ctx context.Context, prompt, value string) {
	if m == nil {
		return
	}
	m.store.set(ctx, cacheKey(prompt), value)
}

// Close releases backend resources. Safe on nil.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	return m.store.close()
}

// cacheKey normalizes whitespace out of the prompt before hashing so
// formatting differences do not fragment the cache.
func cacheKey(prompt string) string {
	normalized := strings.Join(strings.Fields(prompt), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "ai:response:" + hex.EncodeToString(sum[:])
}
