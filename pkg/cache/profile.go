package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/pkg/metrics"
)

const profileKeyPrefix = "profile:"

func ProfileKey(authorID int64) string {
	return fmt.Sprintf("%s%d", profileKeyPrefix, authorID)
}

// JSONStore is the subset of RedisClient the profile cache needs.
type JSONStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// ProfileCache stores author profiles under profile:<id> for ttl.
type ProfileCache struct {
	store   JSONStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewProfileCache counts lookups on m when it is not nil.
func NewProfileCache(store JSONStore, ttl time.Duration, m *metrics.Metrics) *ProfileCache {
	return &ProfileCache{store: store, ttl: ttl, metrics: m}
}

// Get reports ok=false on a miss.
func (c *ProfileCache) Get(ctx context.Context, authorID int64) (*models.Profile, bool, error) {
	var profile models.Profile
	if err := c.store.GetJSON(ctx, ProfileKey(authorID), &profile); err != nil {
		if errors.Is(err, ErrMiss) {
			c.count("miss")
			return nil, false, nil
		}
		c.count("error")
		return nil, false, fmt.Errorf("failed to read cached profile: %w", err)
	}
	c.count("hit")
	return &profile, true, nil
}

func (c *ProfileCache) count(result string) {
	if c.metrics != nil {
		c.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (c *ProfileCache) Set(ctx context.Context, profile *models.Profile) error {
	return c.store.SetJSON(ctx, ProfileKey(profile.ID), profile, c.ttl)
}

func (c *ProfileCache) Invalidate(ctx context.Context, authorIDs ...int64) error {
	keys := make([]string, 0, len(authorIDs))
	for _, id := range authorIDs {
		keys = append(keys, ProfileKey(id))
	}
	return c.store.Delete(ctx, keys...)
}
