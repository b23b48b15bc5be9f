package entity

import (
	"time"

	"marketplace_backend/internal/shared/media"
)

// 商品詳細のキー。レスポンスではこの順序で並びます。
const (
	DetailBrand     = "BRAND"
	DetailSize      = "SIZE"
	DetailCondition = "CONDITION"
	DetailColor     = "COLOR"
	DetailCity      = "CITY"
)

// ProductDetails は商品の属性です。未指定の値は nil です。
type ProductDetails struct {
	Brand     *string
	Size      *string
	Condition *string
	Color     *string
	City      *string
}

// Detail は順序付き商品詳細の1要素です。
type Detail struct {
	Key   string
	Value *string
}

// Ordered は BRAND, SIZE, CONDITION, COLOR, CITY の固定順で詳細を返します。
func (d ProductDetails) Ordered() []Detail {
	return []Detail{
		{Key: DetailBrand, Value: d.Brand},
		{Key: DetailSize, Value: d.Size},
		{Key: DetailCondition, Value: d.Condition},
		{Key: DetailColor, Value: d.Color},
		{Key: DetailCity, Value: d.City},
	}
}

// Owner は出品者の公開情報です。
type Owner struct {
	ID       string
	Username string
}

// Offer は出品された商品です。
type Offer struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Details     ProductDetails
	Image       media.Image
	OwnerID     string
	// Owner は単体取得時のみ設定されます。
	Owner     *Owner
	CreatedAt time.Time
	UpdatedAt time.Time
}
