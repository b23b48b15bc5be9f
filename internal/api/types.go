// Package api はフィーチャー横断で使う HTTP レスポンス型とリクエストのヘルパーを定義します。
package api

// MessageResponse は message のみを返すレスポンスです。エラーレスポンスにも使われます。
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse はヘルスチェックのレスポンスです。
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
