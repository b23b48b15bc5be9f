package entity

import (
	"time"

	"marketplace_backend/internal/shared/media"
)

// Account はユーザーの公開プロフィールです。
type Account struct {
	Username string
}

// User はマーケットプレイスの登録ユーザーです。
// Hash と Salt はクライアントへ返してはいけません。
type User struct {
	ID         string
	Email      string
	Account    Account
	Hash       string
	Salt       string
	Token      string
	Newsletter bool
	Avatar     *media.Image
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
