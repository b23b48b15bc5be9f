package usecase

import "errors"

var (
	// ErrOfferNotFound は商品が存在しない場合に返されます。
	ErrOfferNotFound = errors.New("offer not found")
	// ErrInvalidOfferID は商品IDの形式が不正な場合に返されます。
	ErrInvalidOfferID = errors.New("invalid offer id")
	// ErrForbidden は出品者以外が商品を変更・削除しようとした場合に返されます。
	ErrForbidden = errors.New("caller is not the owner of the offer")
	// ErrPictureRequired は商品画像が無い、またはアップロード結果が得られなかった場合に返されます。
	ErrPictureRequired = errors.New("A picture of the product is required 🖼")
)

// ValidationError は商品入力の検証エラーです。Message はそのままクライアントへ返されます。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
