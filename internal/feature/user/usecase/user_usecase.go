// Package usecase はuserフィーチャーのビジネスロジック (サインアップとログイン) を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/shared/media"
	"marketplace_backend/internal/shared/secret"
)

// AvatarFolder はアバター画像のアップロード先フォルダです。
const AvatarFolder = "/vinted/avatar"

// 存在しないユーザーでもハッシュ比較を行うためのダミー値
const (
	dummySalt = "0000000000000000"
	dummyHash = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
)

// UserRepository はユーザーの永続化層を抽象化します。
type UserRepository interface {
	// Create は新しいユーザーを保存し、ID と作成日時を設定します。
	// メールアドレスが重複する場合は ErrEmailAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスでユーザーを取得します。存在しない場合は ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByToken はトークンでユーザーを取得します。存在しない場合は ErrUserNotFound を返します。
	FindByToken(ctx context.Context, token string) (*entity.User, error)
}

// ImageUploader は画像ストアへのアップロードを抽象化します。
type ImageUploader interface {
	Upload(ctx context.Context, dataURI, folder string) (*media.Image, error)
}

// SignupInput はサインアップの入力です。Avatar は省略可能ですが、無い場合は検証で弾かれます。
type SignupInput struct {
	Username   string
	Email      string
	Password   string
	Newsletter bool
	Avatar     *media.File
}

type userUsecase struct {
	users    UserRepository
	uploader ImageUploader
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, uploader ImageUploader) *userUsecase {
	return &userUsecase{users: users, uploader: uploader}
}

// Signup はアバターをアップロードした上でユーザーを登録し、生成したトークンを含むユーザーを返します。
// アバターのアップロードに失敗した場合は「アバター無し」として扱われます。
func (u *userUsecase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	avatar := u.uploadAvatar(ctx, in.Avatar)

	if err := validateSignup(in, avatar); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	salt := secret.GenerateSalt(secret.SaltLength)
	user := &entity.User{
		Email:      in.Email,
		Account:    entity.Account{Username: in.Username},
		Salt:       salt,
		Hash:       secret.Hash(in.Password, salt),
		Token:      secret.GenerateToken(secret.TokenLength),
		Newsletter: in.Newsletter,
		Avatar:     avatar,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (u *userUsecase) uploadAvatar(ctx context.Context, f *media.File) *media.Image {
	dataURI, err := media.ToDataURI(f)
	if err != nil {
		return nil
	}
	img, err := u.uploader.Upload(ctx, dataURI, AvatarFolder)
	if err != nil {
		logger.Ctx(ctx).Warn("avatar upload failed", zap.Error(err))
		return nil
	}
	return img
}

// 検証順序: username, email, password, avatar
func validateSignup(in SignupInput, avatar *media.Image) error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return &ValidationError{Field: "username", Message: "You need to provide an username 🤓"}
	case strings.TrimSpace(in.Email) == "":
		return &ValidationError{Field: "email", Message: "You need to provide an email 📧"}
	case in.Password == "":
		return &ValidationError{Field: "password", Message: "You need to provide a password 🤫"}
	case avatar == nil:
		return &ValidationError{Field: "avatar", Message: "You need to choose an avatar 🖼"}
	}
	return nil
}

// Login はメールアドレスとパスワードでユーザーを認証します。
// 未登録のメールアドレスでもハッシュ比較を行い、パスワード不一致と同じ ErrInvalidCredentials を返します。
func (u *userUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	salt, hash := dummySalt, dummyHash
	if user != nil {
		salt, hash = user.Salt, user.Hash
	}
	match := secret.Equal(secret.Hash(password, salt), hash)

	if user == nil || !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Authenticate はトークンに紐づくユーザーを返します。
func (u *userUsecase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	return u.users.FindByToken(ctx, token)
}
