// Package dto defines data transfer objects for the offer feature's HTTP transport layer.
package dto

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/feature/offer/usecase"
	"marketplace_backend/internal/shared/media"
)

// ErrInvalidPrice is returned when productPrice is missing or not a finite number.
var ErrInvalidPrice = errors.New("Product price must be a number")

// OfferReq is the body of POST /offer/publish (multipart) and PUT /offers/:id (JSON or form).
// Details left out of the request are stored as null.
type OfferReq struct {
	ProductName        string      `json:"productName" form:"productName"`
	ProductDescription string      `json:"productDescription" form:"productDescription"`
	ProductPrice       json.Number `json:"productPrice" form:"productPrice"`
	ProductBrand       *string     `json:"productBrand" form:"productBrand"`
	ProductSize        *string     `json:"productSize" form:"productSize"`
	ProductCondition   *string     `json:"productCondition" form:"productCondition"`
	ProductColor       *string     `json:"productColor" form:"productColor"`
	ProductCity        *string     `json:"productCity" form:"productCity"`
}

// ToInput converts the request into the usecase input.
func (r OfferReq) ToInput() (usecase.OfferInput, error) {
	price, err := ParseNumber(r.ProductPrice.String())
	if err != nil {
		return usecase.OfferInput{}, ErrInvalidPrice
	}
	return usecase.OfferInput{
		Name:        r.ProductName,
		Description: r.ProductDescription,
		Price:       price,
		Details: entity.ProductDetails{
			Brand:     r.ProductBrand,
			Size:      r.ProductSize,
			Condition: r.ProductCondition,
			Color:     r.ProductColor,
			City:      r.ProductCity,
		},
	}, nil
}

// ParseNumber parses a finite float; NaN and ±Inf are rejected.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Account is the public profile of an offer owner.
type Account struct {
	Username string `json:"username"`
}

// Owner is the populated owner of GET /offers/:id.
type Owner struct {
	ID      string  `json:"_id"`
	Account Account `json:"account"`
}

// Offer is the client representation of an offer.
// Owner is either the owner's id or, when populated, an Owner object.
type Offer struct {
	ID                 string               `json:"_id"`
	ProductName        string               `json:"product_name"`
	ProductDescription string               `json:"product_description"`
	ProductPrice       float64              `json:"product_price"`
	ProductDetails     []map[string]*string `json:"product_details"`
	ProductImage       media.Image          `json:"product_image"`
	Owner              any                  `json:"owner"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

func NewOffer(o *entity.Offer) Offer {
	details := make([]map[string]*string, 0, 5)
	for _, d := range o.Details.Ordered() {
		details = append(details, map[string]*string{d.Key: d.Value})
	}

	var owner any = o.OwnerID
	if o.Owner != nil {
		owner = Owner{ID: o.Owner.ID, Account: Account{Username: o.Owner.Username}}
	}

	return Offer{
		ID:                 o.ID,
		ProductName:        o.Name,
		ProductDescription: o.Description,
		ProductPrice:       o.Price,
		ProductDetails:     details,
		ProductImage:       o.Image,
		Owner:              owner,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ListRes is returned by GET /offers.
type ListRes struct {
	Count  int64   `json:"count"`
	Offers []Offer `json:"offers"`
}

func NewListRes(r *usecase.ListResult) ListRes {
	offers := make([]Offer, 0, len(r.Offers))
	for i := range r.Offers {
		offers = append(offers, NewOffer(&r.Offers[i]))
	}
	return ListRes{Count: r.Count, Offers: offers}
}

// PublishRes is returned by POST /offer/publish.
type PublishRes struct {
	Message  string `json:"message"`
	NewOffer Offer  `json:"newOffer"`
}

// UpdateRes is returned by PUT /offers/:id.
type UpdateRes struct {
	Message string `json:"message"`
	Offer   Offer  `json:"offer"`
}
