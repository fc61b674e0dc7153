package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bbernstein/precipexport/internal/config"
	"github.com/bbernstein/precipexport/internal/models"
	"github.com/bbernstein/precipexport/internal/precip"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// LRUCacheEntry wraps the cached series with its expiry
type LRUCacheEntry struct {
	Data      []models.DailyPrecipitation
	ExpiresAt time.Time
}

// SeriesCache keeps recently fetched series in memory in front of another Source.
type SeriesCache struct {
	source precip.Source
	lru    *lru.Cache[string, *LRUCacheEntry]
	ttl    time.Duration
	clock  clock
	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ precip.Source = (*SeriesCache)(nil)

func NewSeriesCache(source precip.Source, cfg *config.CacheConfig) (*SeriesCache, error) {
	if cfg == nil {
		cfg = config.DefaultCacheConfig()
	}

	lruCache, err := lru.New[string, *LRUCacheEntry](cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &SeriesCache{
		source: source,
		lru:    lruCache,
		ttl:    cfg.TTL,
		clock:  realClock{},
	}, nil
}

// WrapSource returns source unchanged when caching is disabled.
func WrapSource(source precip.Source, cfg *config.CacheConfig) (precip.Source, error) {
	if cfg != nil && !cfg.Enabled {
		log.Debug().Msg("Series cache disabled")
		return source, nil
	}
	return NewSeriesCache(source, cfg)
}

func (c *SeriesCache) DailySeries(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error) {
	key := q.Key()

	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.hits.Add(1)
			log.Debug().Str("key", key).Msg("Cache HIT for precipitation series")
			return cloneSeries(entry.Data), nil
		}
		// Entry expired, remove it
		c.lru.Remove(key)
	}
	c.misses.Add(1)
	log.Debug().Str("key", key).Msg("Cache MISS for precipitation series")

	series, err := c.source.DailySeries(ctx, q)
	if err != nil {
		return nil, err
	}

	c.lru.Add(key, &LRUCacheEntry{
		Data:      cloneSeries(series),
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})

	return series, nil
}

// Stats returns statistics about cache hits and misses
func (c *SeriesCache) Stats() map[string]uint64 {
	return map[string]uint64{
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
	}
}

// Clear removes all entries
func (c *SeriesCache) Clear() {
	c.lru.Purge()
}

func (c *SeriesCache) Len() int {
	return c.lru.Len()
}

func cloneSeries(series []models.DailyPrecipitation) []models.DailyPrecipitation {
	if series == nil {
		return nil
	}
	out := make([]models.DailyPrecipitation, len(series))
	copy(out, series)
	return out
}
