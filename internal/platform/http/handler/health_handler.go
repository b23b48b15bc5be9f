// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/platform/logger"
)

const pingTimeout = 2 * time.Second

// Pinger はデータベースの疎通確認を行います。*sql.DB が満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler は HealthHandler を作成します。db が nil の場合はデータベースを確認しません。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health は /healthz エンドポイントを処理します。
// データベースに到達できない場合は 503 を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, res := h.check(c.Request.Context())
	if status != http.StatusOK {
		logger.FromContext(c).Warn("health check failed")
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, res)
}

func (h *HealthHandler) check(ctx context.Context) (int, api.StatusResponse) {
	if h.db == nil {
		return http.StatusOK, api.StatusResponse{Status: "ok"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return http.StatusServiceUnavailable, api.StatusResponse{Status: "unavailable", Database: "down"}
	}
	return http.StatusOK, api.StatusResponse{Status: "ok", Database: "up"}
}
