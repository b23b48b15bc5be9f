package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/shared/media"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, u *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindByTokenFunc func(ctx context.Context, token string) (*entity.User, error)

	tokenCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.CreateFunc(ctx, u)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.FindByEmailFunc(ctx, email)
}

func (m *mockUserRepository) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	m.tokenCalls++
	return m.FindByTokenFunc(ctx, token)
}

func newAlice() *entity.User {
	return &entity.User{
		ID:      "u1",
		Email:   "a@x.io",
		Account: entity.Account{Username: "alice"},
		Hash:    "secret-hash",
		Salt:    "secret-salt",
		Token:   "tok",
		Avatar:  &media.Image{PublicID: "vinted/avatar/a", SecureURL: "https://img.example/a.png"},
	}
}

func TestNewSessionRedis_Defaults(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "", 0, &mockUserRepository{})

	assert.Equal(t, "session", repo.prefix)
	assert.Equal(t, DefaultTTL, repo.ttl)
}

func TestSessionRedis_FindByToken_CachesLookup(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	inner := &mockUserRepository{
		FindByTokenFunc: func(_ context.Context, token string) (*entity.User, error) {
			assert.Equal(t, "tok", token)
			return newAlice(), nil
		},
	}
	repo := NewSessionRedis(client, "session", time.Minute, inner)

	first, err := repo.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", first.ID)
	assert.True(t, mr.Exists("session:tok"))
	assert.Equal(t, time.Minute, mr.TTL("session:tok"))

	stored, err := mr.Get("session:tok")
	require.NoError(t, err)
	assert.NotContains(t, stored, "secret-hash")
	assert.NotContains(t, stored, "secret-salt")

	second, err := repo.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.tokenCalls, "second lookup should be served from redis")
	assert.Equal(t, "u1", second.ID)
	assert.Equal(t, "alice", second.Account.Username)
	assert.Equal(t, "tok", second.Token)
	assert.Equal(t, "vinted/avatar/a", second.Avatar.PublicID)
	assert.Empty(t, second.Hash)
}

func TestSessionRedis_FindByToken_NotFound(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	inner := &mockUserRepository{
		FindByTokenFunc: func(context.Context, string) (*entity.User, error) {
			return nil, usecase.ErrUserNotFound
		},
	}
	repo := NewSessionRedis(client, "session", time.Minute, inner)

	u, err := repo.FindByToken(context.Background(), "missing")

	assert.Nil(t, u)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	assert.False(t, mr.Exists("session:missing"), "misses are not cached")
}

func TestSessionRedis_FindByToken_CorruptEntryFallsBack(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:tok", "{not json"))
	inner := &mockUserRepository{
		FindByTokenFunc: func(context.Context, string) (*entity.User, error) { return newAlice(), nil },
	}
	repo := NewSessionRedis(client, "session", time.Minute, inner)

	u, err := repo.FindByToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, 1, inner.tokenCalls)
}

func TestSessionRedis_FindByToken_RedisDown(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	mr.Close()
	inner := &mockUserRepository{
		FindByTokenFunc: func(context.Context, string) (*entity.User, error) { return newAlice(), nil },
	}
	repo := NewSessionRedis(client, "session", time.Minute, inner)

	u, err := repo.FindByToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	t.Run("stores session for new user", func(t *testing.T) {
		t.Parallel()

		client, mr := setupTestRedis(t)
		inner := &mockUserRepository{
			CreateFunc: func(_ context.Context, u *entity.User) error {
				u.ID = "u1"
				return nil
			},
		}
		repo := NewSessionRedis(client, "session", time.Minute, inner)

		u := newAlice()
		u.ID = ""
		require.NoError(t, repo.Create(context.Background(), u))
		assert.True(t, mr.Exists("session:tok"))
	})

	t.Run("propagates inner error without session", func(t *testing.T) {
		t.Parallel()

		client, mr := setupTestRedis(t)
		inner := &mockUserRepository{
			CreateFunc: func(context.Context, *entity.User) error { return usecase.ErrEmailAlreadyExists },
		}
		repo := NewSessionRedis(client, "session", time.Minute, inner)

		err := repo.Create(context.Background(), newAlice())
		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
		assert.False(t, mr.Exists("session:tok"))
	})
}

func TestSessionRedis_FindByEmail_PassesThrough(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	dbErr := errors.New("db down")
	inner := &mockUserRepository{
		FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			assert.Equal(t, "a@x.io", email)
			return nil, dbErr
		},
	}
	repo := NewSessionRedis(client, "session", time.Minute, inner)

	_, err := repo.FindByEmail(context.Background(), "a@x.io")
	assert.ErrorIs(t, err, dbErr)
}
