// Package router は HTTP ルーティングとミドルウェアの構成を行います。
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_backend/internal/api"
	offerhandler "marketplace_backend/internal/feature/offer/transport/handler"
	userhandler "marketplace_backend/internal/feature/user/transport/handler"
	authmw "marketplace_backend/internal/platform/auth"
	platformhandler "marketplace_backend/internal/platform/http/handler"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/platform/metrics"
)

// Deps はルータが必要とするハンドラーとミドルウェアの依存です。
type Deps struct {
	Logger  *zap.Logger
	Users   *userhandler.UserHandler
	Offers  *offerhandler.OfferHandler
	Health  *platformhandler.HealthHandler
	Auth    authmw.TokenAuthenticator
	Metrics *metrics.HTTPMetrics // nil の場合メトリクスは無効

	CORSAllowOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(d.CORSAllowOrigins)))

	// 認証不要
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.MessageResponse{Message: "Welcome to my server 🚀"})
	})
	// 導通確認用
	r.GET("/healthz", d.Health.Health)
	r.HEAD("/healthz", d.Health.Health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.POST("/user/signup", d.Users.Signup)
	r.POST("/user/login", d.Users.Login)
	r.GET("/offers", d.Offers.List)
	r.GET("/offers/:id", d.Offers.Get)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(authmw.AuthRequired(d.Auth))
	{
		auth.POST("/offer/publish", d.Offers.Publish)
		auth.PUT("/offers/:id", d.Offers.Update)
		auth.DELETE("/offers/:id", d.Offers.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: "This route does not exist"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", logger.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
