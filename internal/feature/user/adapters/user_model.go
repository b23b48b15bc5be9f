package adapters

import (
	"time"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/shared/media"
)

// UserModel は users テーブルの GORM モデルです。
type UserModel struct {
	ID         string       `gorm:"type:varchar(36);primaryKey"`
	Email      string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username   string       `gorm:"type:varchar(255);not null"`
	Hash       string       `gorm:"type:varchar(64);not null"`
	Salt       string       `gorm:"type:varchar(32);not null"`
	Token      string       `gorm:"type:varchar(128);index;not null"`
	Newsletter bool         `gorm:"not null;default:false"`
	Avatar     *media.Image `gorm:"serializer:json"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UserModel) TableName() string { return "users" }

func toModel(u *entity.User) *UserModel {
	return &UserModel{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Account.Username,
		Hash:       u.Hash,
		Salt:       u.Salt,
		Token:      u.Token,
		Newsletter: u.Newsletter,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (m *UserModel) toEntity() *entity.User {
	return &entity.User{
		ID:         m.ID,
		Email:      m.Email,
		Account:    entity.Account{Username: m.Username},
		Hash:       m.Hash,
		Salt:       m.Salt,
		Token:      m.Token,
		Newsletter: m.Newsletter,
		Avatar:     m.Avatar,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
