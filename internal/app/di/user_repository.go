package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	useradapters "marketplace_backend/internal/feature/user/adapters"
	"marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/platform/session"
)

// NewUserRepository は UserRepository の実装を返します。
// Redis が利用可能な場合、トークン検索はセッションキャッシュを経由します。
func NewUserRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.UserRepository {
	repo := useradapters.NewUserGorm(db)
	if rdb == nil {
		return repo
	}
	return session.NewSessionRedis(rdb, "session", ttl, repo)
}
