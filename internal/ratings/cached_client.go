// Package ratings provides caching for rating lookups.
package ratings

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
)

// Fetcher is the subset of the ratings client the cache wraps
type Fetcher interface {
	GetRating(ctx context.Context, sport models.Sport, name string) (*Rating, error)
	GetRatings(ctx context.Context, sport models.Sport) ([]*Rating, error)
}

// CachedClient wraps a ratings client with an in-memory TTL cache
type CachedClient struct {
	fetcher Fetcher
	cache   *cache.Cache
	ttl     time.Duration
	logger  *logrus.Logger
}

// NewCachedClient creates a caching layer over the given fetcher
func NewCachedClient(fetcher Fetcher, cfg *config.RatingsConfig, logger *logrus.Logger) *CachedClient {
	ttl := cfg.CacheTTL()
	return &CachedClient{
		fetcher: fetcher,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		logger:  logger,
	}
}

// GetRating returns the cached rating when fresh, fetching on a miss.
// Misses from the service are cached as negative entries to avoid hammering
// the endpoint for unknown players.
func (cc *CachedClient) GetRating(ctx context.Context, sport models.Sport, name string) (*Rating, error) {
	key := ratingKey(sport, name)

	if cached, found := cc.cache.Get(key); found {
		metrics.RecordCacheLookup("ratings", true)
		if cached == nil {
			return nil, ErrRatingNotFound
		}
		if rating, ok := cached.(*Rating); ok {
			return rating, nil
		}
	}
	metrics.RecordCacheLookup("ratings", false)

	rating, err := cc.fetcher.GetRating(ctx, sport, name)
	if err == ErrRatingNotFound {
		cc.cache.Set(key, nil, cc.ttl)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	cc.cache.Set(key, rating, cc.ttl)
	return rating, nil
}

// GetRatings returns the cached rating table for a sport, fetching on a miss
func (cc *CachedClient) GetRatings(ctx context.Context, sport models.Sport) ([]*Rating, error) {
	key := tableKey(sport)

	if cached, found := cc.cache.Get(key); found {
		if ratings, ok := cached.([]*Rating); ok {
			metrics.RecordCacheLookup("ratings", true)
			return ratings, nil
		}
	}
	metrics.RecordCacheLookup("ratings", false)

	ratings, err := cc.fetcher.GetRatings(ctx, sport)
	if err != nil {
		return nil, err
	}

	cc.cache.Set(key, ratings, cc.ttl)

	// Warm per-player entries from the table fetch
	for _, r := range ratings {
		cc.cache.Set(ratingKey(sport, r.Name), r, cc.ttl)
	}

	return ratings, nil
}

// Invalidate drops all cached entries for a sport's rating table
func (cc *CachedClient) Invalidate(sport models.Sport) {
	cc.cache.Delete(tableKey(sport))
}

// Clear flushes the entire cache
func (cc *CachedClient) Clear() {
	cc.cache.Flush()
}

// ItemCount returns the number of cached entries
func (cc *CachedClient) ItemCount() int {
	return cc.cache.ItemCount()
}

func ratingKey(sport models.Sport, name string) string {
	return fmt.Sprintf("rating:%s:%s", sport, name)
}

func tableKey(sport models.Sport) string {
	return fmt.Sprintf("table:%s", sport)
}
