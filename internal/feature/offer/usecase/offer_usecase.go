// Package usecase はofferフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/shared/media"
)

// OfferFolder は商品画像のアップロード先フォルダです。
const OfferFolder = "/vinted/offres"

const (
	maxNameLength        = 50
	maxDescriptionLength = 500
	maxPrice             = 100000
)

// OfferRepository は商品の永続化層を抽象化します。
type OfferRepository interface {
	// Create は商品を保存し、ID と作成日時を設定します。
	Create(ctx context.Context, offer *entity.Offer) error
	// Find は条件に一致する商品を返します。
	Find(ctx context.Context, q Query) ([]entity.Offer, error)
	// Count はページングを無視して条件に一致する商品数を返します。
	Count(ctx context.Context, f Filter) (int64, error)
	// FindByID は商品を取得します。存在しない場合は ErrOfferNotFound、ID が不正な場合は ErrInvalidOfferID を返します。
	FindByID(ctx context.Context, id string) (*entity.Offer, error)
	// Update は商品を上書き保存します。
	Update(ctx context.Context, offer *entity.Offer) error
	// Delete は商品を削除します。
	Delete(ctx context.Context, id string) error
}

// OwnerRepository は出品者の公開情報を取得します。
type OwnerRepository interface {
	FindOwner(ctx context.Context, userID string) (*entity.Owner, error)
}

// ImageUploader は画像ストアへのアップロードを抽象化します。
type ImageUploader interface {
	Upload(ctx context.Context, dataURI, folder string) (*media.Image, error)
}

// OfferInput は出品・更新で受け付ける項目です。
type OfferInput struct {
	Name        string
	Description string
	Price       float64
	Details     entity.ProductDetails
}

// ListParams は一覧取得のパラメータです。
type ListParams struct {
	Filter Filter
	Sort   SortOrder
	Page   int
}

// ListResult は一覧取得の結果です。Count はページングを無視した総件数です。
type ListResult struct {
	Count  int64
	Offers []entity.Offer
}

type offerUsecase struct {
	offers   OfferRepository
	owners   OwnerRepository
	uploader ImageUploader
}

// NewOfferUsecase はofferUsecaseの新しいインスタンスを生成します。
func NewOfferUsecase(offers OfferRepository, owners OwnerRepository, uploader ImageUploader) *offerUsecase {
	return &offerUsecase{offers: offers, owners: owners, uploader: uploader}
}

// Validate は商品名・説明・価格の上限を検証します。
func Validate(in OfferInput) error {
	switch {
	case utf8.RuneCountInString(in.Name) > maxNameLength:
		return &ValidationError{Field: "productName", Message: "Product name cannot exceed 50 characters"}
	case utf8.RuneCountInString(in.Description) > maxDescriptionLength:
		return &ValidationError{Field: "productDescription", Message: "Product description cannot exceed 500 characters"}
	case in.Price > maxPrice:
		return &ValidationError{Field: "productPrice", Message: "Product price cannot exceed 100 000"}
	}
	return nil
}

// Publish は画像をアップロードし、呼び出し元を出品者として商品を登録します。
func (u *offerUsecase) Publish(ctx context.Context, ownerID string, in OfferInput, picture *media.File) (*entity.Offer, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	dataURI, err := media.ToDataURI(picture)
	if err != nil {
		return nil, ErrPictureRequired
	}
	img, err := u.uploader.Upload(ctx, dataURI, OfferFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to upload picture: %w", err)
	}
	if img == nil {
		return nil, ErrPictureRequired
	}

	offer := &entity.Offer{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Details:     in.Details,
		Image:       *img,
		OwnerID:     ownerID,
	}
	if err := u.offers.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to save offer: %w", err)
	}
	return offer, nil
}

// List は条件に一致する商品の1ページ分と総件数を返します。
func (u *offerUsecase) List(ctx context.Context, p ListParams) (*ListResult, error) {
	skip, limit := Pagination(p.Page)
	offers, err := u.offers.Find(ctx, Query{Filter: p.Filter, Sort: p.Sort, Skip: skip, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}
	count, err := u.offers.Count(ctx, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}
	if offers == nil {
		offers = []entity.Offer{}
	}
	return &ListResult{Count: count, Offers: offers}, nil
}

// Get は出品者情報付きで商品を返します。存在しない場合は (nil, nil) を返します。
func (u *offerUsecase) Get(ctx context.Context, id string) (*entity.Offer, error) {
	offer, err := u.offers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			return nil, nil
		}
		return nil, err
	}
	owner, err := u.owners.FindOwner(ctx, offer.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	offer.Owner = owner
	return offer, nil
}

// Update は出品者本人であれば商品名・説明・価格・詳細を丸ごと置き換えます。画像と出品者は変わりません。
func (u *offerUsecase) Update(ctx context.Context, callerID, id string, in OfferInput) (*entity.Offer, error) {
	offer, err := u.ownedOffer(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	offer.Name = in.Name
	offer.Description = in.Description
	offer.Price = in.Price
	offer.Details = in.Details
	if err := u.offers.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}
	return offer, nil
}

// Delete は出品者本人であれば商品を削除します。
func (u *offerUsecase) Delete(ctx context.Context, callerID, id string) error {
	if _, err := u.ownedOffer(ctx, callerID, id); err != nil {
		return err
	}
	if err := u.offers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return nil
}

// ownedOffer は商品を取得し、呼び出し元が出品者であることを確認します。
// 形式が不正な ID は存在しない商品として扱います。
func (u *offerUsecase) ownedOffer(ctx context.Context, callerID, id string) (*entity.Offer, error) {
	offer, err := u.offers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInvalidOfferID) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if offer.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return offer, nil
}
