// Package session はトークンからユーザーを引く処理を Redis でキャッシュします。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/shared/media"
)

const DefaultTTL = time.Hour

// record は Redis に保存するセッションです。Hash と Salt は保存しません。
type record struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Username   string       `json:"username"`
	Newsletter bool         `json:"newsletter"`
	Avatar     *media.Image `json:"avatar,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// SessionRedis は usecase.UserRepository をラップし、FindByToken の結果を Redis に保存します。
// ユーザーは作成後に変更されないため無効化は行いません。
type SessionRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	inner  usecase.UserRepository
}

var _ usecase.UserRepository = (*SessionRedis)(nil)

func NewSessionRedis(client *redis.Client, prefix string, ttl time.Duration, inner usecase.UserRepository) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionRedis{client: client, prefix: prefix, ttl: ttl, inner: inner}
}

func (r *SessionRedis) sessionKey(token string) string {
	return fmt.Sprintf("%s:%s", r.prefix, token)
}

// Create はユーザーを保存し、発行されたトークンのセッションを作成します。
func (r *SessionRedis) Create(ctx context.Context, u *entity.User) error {
	if err := r.inner.Create(ctx, u); err != nil {
		return err
	}
	r.store(ctx, u)
	return nil
}

func (r *SessionRedis) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

// FindByToken はセッションがあればそれを返し、無ければ inner から取得して保存します。
// Redis の障害時は inner にフォールバックします。
func (r *SessionRedis) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Bytes()
	switch {
	case err == nil:
		var rec record
		uerr := json.Unmarshal(data, &rec)
		if uerr == nil {
			return rec.toEntity(token), nil
		}
		logger.Ctx(ctx).Warn("discarding corrupt session", zap.Error(uerr))
	case !errors.Is(err, redis.Nil):
		logger.Ctx(ctx).Warn("session lookup failed", zap.Error(err))
	}

	u, err := r.inner.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	r.store(ctx, u)
	return u, nil
}

func (r *SessionRedis) store(ctx context.Context, u *entity.User) {
	if u.Token == "" {
		return
	}
	data, err := json.Marshal(record{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Account.Username,
		Newsletter: u.Newsletter,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.sessionKey(u.Token), data, r.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn("failed to store session", zap.Error(err))
	}
}

func (rec record) toEntity(token string) *entity.User {
	return &entity.User{
		ID:         rec.ID,
		Email:      rec.Email,
		Account:    entity.Account{Username: rec.Username},
		Token:      token,
		Newsletter: rec.Newsletter,
		Avatar:     rec.Avatar,
		CreatedAt:  rec.CreatedAt,
	}
}
