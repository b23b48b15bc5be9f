// Package adapters はofferフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace_backend/internal/feature/offer/domain/entity"
	"marketplace_backend/internal/feature/offer/usecase"
)

// offerGorm はOfferRepositoryインターフェースのGORM実装です。
type offerGorm struct {
	db *gorm.DB
}

var _ usecase.OfferRepository = (*offerGorm)(nil)

// NewOfferGorm は指定されたgorm.DB接続でofferGormの新しいインスタンスを生成します。
func NewOfferGorm(db *gorm.DB) *offerGorm {
	return &offerGorm{db: db}
}

// Create は商品を保存します。ID が空の場合は UUID を採番します。
func (r *offerGorm) Create(ctx context.Context, o *entity.Offer) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	m := toModel(o)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	return nil
}

// Find は絞り込み・並び替え・ページングを適用して商品を返します。
// 価格で並び替えない場合、および同価格の場合は登録順になります。
func (r *offerGorm) Find(ctx context.Context, q usecase.Query) ([]entity.Offer, error) {
	tx := applyFilter(r.db.WithContext(ctx).Model(&OfferModel{}), q.Filter)

	switch q.Sort {
	case usecase.SortPriceAsc:
		tx = tx.Order("product_price ASC")
	case usecase.SortPriceDesc:
		tx = tx.Order("product_price DESC")
	}
	tx = tx.Order("created_at ASC").Order("id ASC")

	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []OfferModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	offers := make([]entity.Offer, 0, len(rows))
	for i := range rows {
		offers = append(offers, rows[i].toEntity())
	}
	return offers, nil
}

// Count は条件に一致する商品数を返します。
func (r *offerGorm) Count(ctx context.Context, f usecase.Filter) (int64, error) {
	var n int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&OfferModel{}), f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// FindByID はIDで商品を取得します。
func (r *offerGorm) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usecase.ErrInvalidOfferID
	}
	var m OfferModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrOfferNotFound
		}
		return nil, err
	}
	o := m.toEntity()
	return &o, nil
}

// Update は商品の全列を上書きします。nil の詳細は NULL になります。
func (r *offerGorm) Update(ctx context.Context, o *entity.Offer) error {
	m := toModel(o)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	o.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete は商品を削除します。
func (r *offerGorm) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&OfferModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrOfferNotFound
	}
	return nil
}

func applyFilter(tx *gorm.DB, f usecase.Filter) *gorm.DB {
	if f.Name != "" {
		tx = tx.Where(`LOWER(product_name) LIKE ? ESCAPE '\'`, containsPattern(f.Name))
	}
	if f.City != "" {
		tx = tx.Where(`LOWER(detail_city) LIKE ? ESCAPE '\'`, containsPattern(f.City))
	}
	if f.PriceMin != nil {
		tx = tx.Where("product_price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		tx = tx.Where("product_price <= ?", *f.PriceMax)
	}
	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern は大文字小文字を区別しない部分一致用の LIKE パターンを返します。
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
