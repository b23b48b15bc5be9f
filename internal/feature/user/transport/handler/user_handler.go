// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/feature/user/transport/http/dto"
	"marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/platform/logger"
)

// レスポンスメッセージ
const (
	msgDuplicateEmail   = "Seems that this email already exists 👀!"
	msgUnknownUser      = "This user doesn't exists, please signup 💌!"
	msgWrongCredentials = "Unauthorized - Wrong credentials"
)

// UserUsecase はユーザー操作のユースケースを定義します。
type UserUsecase interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

// UserHandler はサインアップとログインのHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Signup はマルチパートフォーム (username, email, password, newsletter, avatar) でユーザーを登録します。
// - 入力不足は400、メール重複は409
// - 成功時は201で _id, account, token を返却
func (h *UserHandler) Signup(c *gin.Context) {
	log := logger.FromContext(c)

	avatar, err := api.FormFile(c, "avatar")
	if err != nil {
		log.Error("failed to read avatar", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
		return
	}

	newsletter, _ := strconv.ParseBool(c.PostForm("newsletter"))
	in := usecase.SignupInput{
		Username:   c.PostForm("username"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Newsletter: newsletter,
		Avatar:     avatar,
	}

	user, err := h.users.Signup(c.Request.Context(), in)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			log.Warn("signup validation failed", zap.String("field", vErr.Field))
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: vErr.Message})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			log.Warn("signup with existing email", zap.String("email", in.Email))
			c.JSON(http.StatusConflict, api.MessageResponse{Message: msgDuplicateEmail})
		default:
			log.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
		}
		return
	}

	log.Info("user signup successful", zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, dto.NewSignupRes(user))
}

// Login はメールアドレスとパスワードでユーザーを認証します。JSON とフォームの両方を受け付けます。
// - メールアドレス未指定は404、認証失敗は401
// - 成功時は200で _id, token, account を返却
func (h *UserHandler) Login(c *gin.Context) {
	log := logger.FromContext(c)

	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("login request binding failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailRequired):
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUnknownUser})
		case errors.Is(err, usecase.ErrInvalidCredentials):
			log.Warn("login failed", zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: msgWrongCredentials})
		default:
			log.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
		}
		return
	}

	log.Info("user login successful", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, dto.NewLoginRes(user))
}
