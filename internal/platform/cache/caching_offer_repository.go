// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/feature/offer/usecase"
	"marketplace_backend/internal/platform/logger"
)

// CachingOfferRepository decorates an OfferRepository with Redis caching.
// Find, Count and FindByID are served from cache when possible. Any write drops
// every key in the namespace.
type CachingOfferRepository struct {
	inner     usecase.OfferRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.OfferRepository = (*CachingOfferRepository)(nil)

// NewCachingOfferRepository decorates an OfferRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "offers".
// A nil rdb disables caching entirely.
func NewCachingOfferRepository(rdb *redis.Client, ttl time.Duration, inner usecase.OfferRepository, namespace string) *CachingOfferRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "offers"
	}
	return &CachingOfferRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the offer and invalidates cached reads.
func (c *CachingOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if err := c.inner.Create(ctx, offer); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update overwrites the offer and invalidates cached reads.
func (c *CachingOfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	if err := c.inner.Update(ctx, offer); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes the offer and invalidates cached reads.
func (c *CachingOfferRepository) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Find returns a page of offers, checking the cache first.
func (c *CachingOfferRepository) Find(ctx context.Context, q usecase.Query) ([]entity.Offer, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, q)
	}
	key := c.findKey(q)

	var cached []entity.Offer
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// Count returns the number of matching offers, checking the cache first.
func (c *CachingOfferRepository) Count(ctx context.Context, f usecase.Filter) (int64, error) {
	if c.rdb == nil {
		return c.inner.Count(ctx, f)
	}
	key := c.countKey(f)

	var cached int64
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	n, err := c.inner.Count(ctx, f)
	if err != nil {
		return 0, err
	}
	c.store(ctx, key, n)
	return n, nil
}

// FindByID returns a single offer, checking the cache first. Misses are not cached.
func (c *CachingOfferRepository) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}
	key := c.idKey(id)

	var cached entity.Offer
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// load decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingOfferRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes a value to the cache (best effort).
func (c *CachingOfferRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachingOfferRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		logger.Ctx(ctx).Warn("cache invalidation failed", zap.String("namespace", c.namespace), zap.Error(err))
	}
}

func (c *CachingOfferRepository) findKey(q usecase.Query) string {
	sort := string(q.Sort)
	if sort == "" {
		sort = "none"
	}
	return fmt.Sprintf("%s:find:%s:%s:%d:%d", c.namespace, filterKey(q.Filter), sort, q.Skip, q.Limit)
}

func (c *CachingOfferRepository) countKey(f usecase.Filter) string {
	return fmt.Sprintf("%s:count:%s", c.namespace, filterKey(f))
}

func (c *CachingOfferRepository) idKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}

// filterKey encodes a filter; names are lowercased since matching is case-insensitive.
func filterKey(f usecase.Filter) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		safe(strings.ToLower(f.Name)),
		safe(strings.ToLower(f.City)),
		bound(f.PriceMin),
		bound(f.PriceMax),
	)
}

func bound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingOfferRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes key segments so that ':' and glob characters cannot leak into the key structure.
// The encoding is injective, so distinct inputs never share a key.
func safe(s string) string {
	return url.QueryEscape(s)
}
