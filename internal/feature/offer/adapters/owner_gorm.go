package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/feature/offer/usecase"
)

// ownerGorm は users テーブルから出品者の公開情報 (ID とユーザー名) だけを読み出します。
type ownerGorm struct {
	db *gorm.DB
}

var _ usecase.OwnerRepository = (*ownerGorm)(nil)

func NewOwnerGorm(db *gorm.DB) *ownerGorm {
	return &ownerGorm{db: db}
}

type ownerRow struct {
	ID       string
	Username string
}

// FindOwner は出品者を返します。ユーザーが存在しない場合は (nil, nil) です。
func (r *ownerGorm) FindOwner(ctx context.Context, userID string) (*entity.Owner, error) {
	var row ownerRow
	err := r.db.WithContext(ctx).Table("users").Select("id", "username").Where("id = ?", userID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.Owner{ID: row.ID, Username: row.Username}, nil
}
