package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Service caches serialized analysis results for context-free culture
// checks. Requests carrying conversation context are never cached: the same
// text can deserve different suggestions against different histories.
type Service interface {
	Get(ctx context.Context, text, language string) ([]byte, bool)
	Set(ctx context.Context, text, language string, payload []byte) error
	Clear(ctx context.Context) error
}

// Cache implements caching service
type Cache struct {
	enabled bool
	cache   *cache.Cache
	logger  *logrus.Logger
	maxSize int
}

// NewCache creates a new cache service
func NewCache(cfg *config.Config, logger *logrus.Logger) Service {
	if !cfg.Cache.Enabled {
		return &Cache{enabled: false}
	}

	return &Cache{
		enabled: true,
		cache:   cache.New(cfg.Cache.TTL, cfg.Cache.TTL*2),
		logger:  logger,
		maxSize: cfg.Cache.MaxSize,
	}
}

// Get retrieves a cached analysis result.
func (c *Cache) Get(ctx context.Context, text, language string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	if val, found := c.cache.Get(c.generateKey(text, language)); found {
		c.logger.WithField("language", language).Debug("Analysis cache hit")
		return val.([]byte), true
	}

	return nil, false
}

// Set stores an analysis result.
func (c *Cache) Set(ctx context.Context, text, language string, payload []byte) error {
	if !c.enabled {
		return nil
	}

	if c.cache.ItemCount() >= c.maxSize {
		c.logger.Warn("Cache size limit reached, clearing old entries")
		c.cache.DeleteExpired()
	}

	c.cache.SetDefault(c.generateKey(text, language), payload)
	return nil
}

// Clear removes all cached entries
func (c *Cache) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	c.cache.Flush()
	c.logger.Info("Analysis cache cleared")
	return nil
}

// generateKey creates a unique cache key
func (c *Cache) generateKey(text, language string) string {
	data := fmt.Sprintf("%s:%s", language, text)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
