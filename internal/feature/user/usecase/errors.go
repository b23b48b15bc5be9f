package usecase

import "errors"

var (
	// ErrEmailAlreadyExists は同じメールアドレスのユーザーが既に登録されている場合に返されます。
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound はユーザーが存在しない場合に返されます。
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailRequired はログイン時にメールアドレスが指定されていない場合に返されます。
	ErrEmailRequired = errors.New("email is required")
	// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返されます。
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError はサインアップ入力の検証エラーです。Message はそのままクライアントへ返されます。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
