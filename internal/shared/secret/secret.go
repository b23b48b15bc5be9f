// Package secret はパスワードのハッシュ化とランダムな英数字トークンの生成を提供します。
package secret

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/dchest/uniuri"
)

const (
	// SaltLength はユーザーごとに生成するソルトの文字数です。
	SaltLength = 16
	// TokenLength は認証トークンの文字数です。
	TokenLength = 64
)

// GenerateSalt は n 文字のランダムな英数字ソルトを返します。
func GenerateSalt(n int) string {
	return randomString(n)
}

// GenerateToken は n 文字のランダムな英数字トークンを返します。
func GenerateToken(n int) string {
	return randomString(n)
}

// Hash は password と salt を連結した文字列の SHA-256 を標準 base64 で返します。
func Hash(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Equal は2つのハッシュを定数時間で比較します。
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func randomString(n int) string {
	if n <= 0 {
		return ""
	}
	// uniuri.StdChars は英数字62文字
	return uniuri.NewLen(n)
}
