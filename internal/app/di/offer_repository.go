package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	offeradapters "marketplace_backend/internal/feature/offer/adapters"
	"marketplace_backend/internal/feature/offer/usecase"
	"marketplace_backend/internal/platform/cache"
)

// NewOfferRepository は OfferRepository の実装を返します。
// Redis が利用可能な場合は読み取りをキャッシュするラッパーで包みます。
func NewOfferRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.OfferRepository {
	repo := offeradapters.NewOfferGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingOfferRepository(rdb, ttl, repo, "offers")
}
