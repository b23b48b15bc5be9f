package adapters

import (
	"time"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/shared/media"
)

// OfferModel は offers テーブルの GORM モデルです。商品詳細は列として保持し、画像参照は JSON で保存します。
type OfferModel struct {
	ID                 string      `gorm:"type:varchar(36);primaryKey"`
	ProductName        string      `gorm:"type:varchar(255);not null;default:''"`
	ProductDescription string      `gorm:"type:text;not null;default:''"`
	ProductPrice       float64     `gorm:"not null;default:0;index"`
	DetailBrand        *string     `gorm:"type:varchar(255)"`
	DetailSize         *string     `gorm:"type:varchar(255)"`
	DetailCondition    *string     `gorm:"type:varchar(255)"`
	DetailColor        *string     `gorm:"type:varchar(255)"`
	DetailCity         *string     `gorm:"type:varchar(255)"`
	ProductImage       media.Image `gorm:"serializer:json"`
	OwnerID            string      `gorm:"type:varchar(36);not null;index"`
	CreatedAt          time.Time   `gorm:"index"`
	UpdatedAt          time.Time
}

func (OfferModel) TableName() string { return "offers" }

func toModel(o *entity.Offer) *OfferModel {
	return &OfferModel{
		ID:                 o.ID,
		ProductName:        o.Name,
		ProductDescription: o.Description,
		ProductPrice:       o.Price,
		DetailBrand:        o.Details.Brand,
		DetailSize:         o.Details.Size,
		DetailCondition:    o.Details.Condition,
		DetailColor:        o.Details.Color,
		DetailCity:         o.Details.City,
		ProductImage:       o.Image,
		OwnerID:            o.OwnerID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (m *OfferModel) toEntity() entity.Offer {
	return entity.Offer{
		ID:          m.ID,
		Name:        m.ProductName,
		Description: m.ProductDescription,
		Price:       m.ProductPrice,
		Details: entity.ProductDetails{
			Brand:     m.DetailBrand,
			Size:      m.DetailSize,
			Condition: m.DetailCondition,
			Color:     m.DetailColor,
			City:      m.DetailCity,
		},
		Image:     m.ProductImage,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
