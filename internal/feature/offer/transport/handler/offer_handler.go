// Package handler はofferフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/feature/offer/transport/http/dto"
	"marketplace_backend/internal/feature/offer/usecase"
	authmw "marketplace_backend/internal/platform/auth"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/shared/media"
)

// OfferUsecase は商品操作のユースケースを定義します。
type OfferUsecase interface {
	Publish(ctx context.Context, ownerID string, in usecase.OfferInput, picture *media.File) (*entity.Offer, error)
	List(ctx context.Context, p usecase.ListParams) (*usecase.ListResult, error)
	Get(ctx context.Context, id string) (*entity.Offer, error)
	Update(ctx context.Context, callerID, id string, in usecase.OfferInput) (*entity.Offer, error)
	Delete(ctx context.Context, callerID, id string) error
}

// OfferHandler は商品のHTTPリクエストを処理します。
type OfferHandler struct {
	offers OfferUsecase
}

// NewOfferHandler はOfferHandlerの新しいインスタンスを生成します。
func NewOfferHandler(offers OfferUsecase) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// Publish は POST /offer/publish を処理します。認証必須で、画像は productPicture フィールドで受け取ります。
func (h *OfferHandler) Publish(c *gin.Context) {
	log := logger.FromContext(c)

	caller, ok := authmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized, provide a token"})
		return
	}

	var req dto.OfferReq
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("publish request binding failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: err.Error()})
		return
	}

	picture, err := api.FormFile(c, "productPicture")
	if err != nil {
		log.Error("failed to read product picture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
		return
	}

	offer, err := h.offers.Publish(c.Request.Context(), caller.ID, in, picture)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	log.Info("offer published", zap.String("offer_id", offer.ID), zap.String("owner_id", caller.ID))
	c.JSON(http.StatusCreated, dto.PublishRes{Message: "Offer created", NewOffer: dto.NewOffer(offer)})
}

// List は GET /offers を処理します。
// クエリ: productName, productCity, priceMin, priceMax, sort (price-asc|price-desc), page
func (h *OfferHandler) List(c *gin.Context) {
	priceMin, err := optionalNumber(c.Query("priceMin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "priceMin must be a number"})
		return
	}
	priceMax, err := optionalNumber(c.Query("priceMax"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "priceMax must be a number"})
		return
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	res, err := h.offers.List(c.Request.Context(), usecase.ListParams{
		Filter: usecase.Filter{
			Name:     c.Query("productName"),
			City:     c.Query("productCity"),
			PriceMin: priceMin,
			PriceMax: priceMax,
		},
		Sort: usecase.ParseSort(c.Query("sort")),
		Page: page,
	})
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, dto.NewListRes(res))
}

// Get は GET /offers/:id を処理します。存在しない場合は null を返します。
func (h *OfferHandler) Get(c *gin.Context) {
	offer, err := h.offers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.FromContext(c).Error("get offer failed", zap.String("offer_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
		return
	}
	if offer == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewOffer(offer))
}

// Update は PUT /offers/:id を処理します。出品者本人のみ変更できます。
func (h *OfferHandler) Update(c *gin.Context) {
	caller, ok := authmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized, provide a token"})
		return
	}

	var req dto.OfferReq
	if err := c.ShouldBind(&req); err != nil {
		logger.FromContext(c).Warn("update request binding failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: err.Error()})
		return
	}

	offer, err := h.offers.Update(c.Request.Context(), caller.ID, c.Param("id"), in)
	if err != nil {
		h.respondError(c, err, "You are not authorized to modify this offer")
		return
	}
	c.JSON(http.StatusOK, dto.UpdateRes{Message: "Offer modified", Offer: dto.NewOffer(offer)})
}

// Delete は DELETE /offers/:id を処理します。出品者本人のみ削除できます。
func (h *OfferHandler) Delete(c *gin.Context) {
	caller, ok := authmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized, provide a token"})
		return
	}

	if err := h.offers.Delete(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
		h.respondError(c, err, "You are not authorized to delete this offer")
		return
	}
	logger.FromContext(c).Info("offer deleted", zap.String("offer_id", c.Param("id")))
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Offer deleted"})
}

// respondError はユースケースのエラーをステータスコードに変換します。
func (h *OfferHandler) respondError(c *gin.Context, err error, forbiddenMsg string) {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: vErr.Message})
	case errors.Is(err, usecase.ErrPictureRequired):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: usecase.ErrPictureRequired.Error()})
	case errors.Is(err, usecase.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: "Offer not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, api.MessageResponse{Message: forbiddenMsg})
	default:
		logger.FromContext(c).Error("offer request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: err.Error()})
	}
}

func optionalNumber(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := dto.ParseNumber(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
