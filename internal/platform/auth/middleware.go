package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/platform/logger"
)

// ContextUser は認証済みユーザーを gin.Context に格納するキーです。
const ContextUser = "user"

// TokenAuthenticator はトークンからユーザーを解決します。
// 一致するユーザーがいない場合は usecase.ErrUserNotFound を返します。
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that resolves the bearer token to a user
// and restricts access to authenticated users only.
func AuthRequired(users TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization ヘッダの存在確認
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized, provide a token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		// 2. トークンの完全一致でユーザーを検索
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized, this user doesn't exists"})
				return
			}
			logger.FromContext(c).Error("token lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
			return
		}

		// 3. 後続ハンドラのためにユーザーを格納
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser は AuthRequired が格納したユーザーを返します。
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
