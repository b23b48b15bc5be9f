package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/shared/media"
	"marketplace_backend/internal/shared/secret"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	CreateFunc      func(user *entity.User) error
	FindByEmailFunc func(email string) (*entity.User, error)
	FindByTokenFunc func(token string) (*entity.User, error)
}

func (m *mockUserRepository) Create(_ context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	user.ID = "generated-id"
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByToken(_ context.Context, token string) (*entity.User, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(token)
	}
	return nil, ErrUserNotFound
}

// mockUploader is a mock implementation of the ImageUploader interface.
type mockUploader struct {
	UploadFunc func(dataURI, folder string) (*media.Image, error)
	calls      int
}

func (m *mockUploader) Upload(_ context.Context, dataURI, folder string) (*media.Image, error) {
	m.calls++
	if m.UploadFunc != nil {
		return m.UploadFunc(dataURI, folder)
	}
	return &media.Image{PublicID: folder + "/img", SecureURL: "https://img.example/" + folder}, nil
}

func avatarFile() *media.File {
	return &media.File{Filename: "me.png", MimeType: "image/png", Data: []byte("png")}
}

func validSignup() SignupInput {
	return SignupInput{
		Username: "alice",
		Email:    "a@x.io",
		Password: "pw",
		Avatar:   avatarFile(),
	}
}

func TestUserUsecase_Signup(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var stored *entity.User
		repo := &mockUserRepository{CreateFunc: func(u *entity.User) error {
			u.ID = "u1"
			stored = u
			return nil
		}}
		uploader := &mockUploader{UploadFunc: func(dataURI, folder string) (*media.Image, error) {
			assert.Equal(t, "data:image/png;base64,cG5n", dataURI)
			assert.Equal(t, AvatarFolder, folder)
			return &media.Image{PublicID: "avatar-1"}, nil
		}}
		uc := NewUserUsecase(repo, uploader)

		in := validSignup()
		in.Newsletter = true
		user, err := uc.Signup(context.Background(), in)

		require.NoError(t, err)
		require.Same(t, stored, user)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "alice", user.Account.Username)
		assert.True(t, user.Newsletter)
		assert.Len(t, user.Salt, secret.SaltLength)
		assert.Len(t, user.Token, secret.TokenLength)
		assert.Equal(t, secret.Hash("pw", user.Salt), user.Hash)
		assert.Equal(t, "avatar-1", user.Avatar.PublicID)
	})

	t.Run("tokens are distinct across signups", func(t *testing.T) {
		t.Parallel()
		uc := NewUserUsecase(&mockUserRepository{}, &mockUploader{})

		a, err := uc.Signup(context.Background(), validSignup())
		require.NoError(t, err)
		in := validSignup()
		in.Email = "b@x.io"
		b, err := uc.Signup(context.Background(), in)
		require.NoError(t, err)

		assert.NotEmpty(t, a.Token)
		assert.NotEqual(t, a.Token, b.Token)
	})

	validation := []struct {
		name    string
		mutate  func(in *SignupInput)
		field   string
		message string
	}{
		{"missing username", func(in *SignupInput) { in.Username = "" }, "username", "You need to provide an username 🤓"},
		{"missing email", func(in *SignupInput) { in.Email = " " }, "email", "You need to provide an email 📧"},
		{"missing password", func(in *SignupInput) { in.Password = "" }, "password", "You need to provide a password 🤫"},
		{"missing avatar", func(in *SignupInput) { in.Avatar = nil }, "avatar", "You need to choose an avatar 🖼"},
		{"username checked before avatar", func(in *SignupInput) { in.Username = ""; in.Avatar = nil }, "username", "You need to provide an username 🤓"},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mockUserRepository{CreateFunc: func(*entity.User) error {
				t.Fatal("Create must not be called")
				return nil
			}}
			uc := NewUserUsecase(repo, &mockUploader{})

			in := validSignup()
			tt.mutate(&in)
			user, err := uc.Signup(context.Background(), in)

			assert.Nil(t, user)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.message, vErr.Error())
		})
	}

	t.Run("upload failure is treated as missing avatar", func(t *testing.T) {
		t.Parallel()
		uploader := &mockUploader{UploadFunc: func(string, string) (*media.Image, error) {
			return nil, errors.New("cloud down")
		}}
		uc := NewUserUsecase(&mockUserRepository{}, uploader)

		_, err := uc.Signup(context.Background(), validSignup())

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "avatar", vErr.Field)
		assert.Equal(t, 1, uploader.calls)
	})

	t.Run("avatar is uploaded before validation", func(t *testing.T) {
		t.Parallel()
		uploader := &mockUploader{}
		uc := NewUserUsecase(&mockUserRepository{}, uploader)

		in := validSignup()
		in.Password = ""
		_, err := uc.Signup(context.Background(), in)

		require.Error(t, err)
		assert.Equal(t, 1, uploader.calls)
	})

	t.Run("duplicate email found on lookup", func(t *testing.T) {
		t.Parallel()
		repo := &mockUserRepository{
			FindByEmailFunc: func(string) (*entity.User, error) { return &entity.User{ID: "existing"}, nil },
			CreateFunc: func(*entity.User) error {
				t.Fatal("Create must not be called")
				return nil
			},
		}
		uc := NewUserUsecase(repo, &mockUploader{})

		_, err := uc.Signup(context.Background(), validSignup())

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("duplicate email reported by store", func(t *testing.T) {
		t.Parallel()
		repo := &mockUserRepository{CreateFunc: func(*entity.User) error { return ErrEmailAlreadyExists }}
		uc := NewUserUsecase(repo, &mockUploader{})

		_, err := uc.Signup(context.Background(), validSignup())

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		t.Parallel()
		repo := &mockUserRepository{CreateFunc: func(*entity.User) error { return errors.New("disk full") }}
		uc := NewUserUsecase(repo, &mockUploader{})

		_, err := uc.Signup(context.Background(), validSignup())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestUserUsecase_Login(t *testing.T) {
	t.Parallel()

	salt := "abcdefghijklmnop"
	alice := &entity.User{
		ID:      "u1",
		Email:   "a@x.io",
		Account: entity.Account{Username: "alice"},
		Salt:    salt,
		Hash:    secret.Hash("pw", salt),
		Token:   "tok",
	}
	repo := &mockUserRepository{FindByEmailFunc: func(email string) (*entity.User, error) {
		if email == "a@x.io" {
			return alice, nil
		}
		return nil, ErrUserNotFound
	}}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"correct password", "a@x.io", "pw", nil},
		{"wrong password", "a@x.io", "nope", ErrInvalidCredentials},
		{"unknown email", "b@x.io", "pw", ErrInvalidCredentials},
		{"missing email", "", "pw", ErrEmailRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := NewUserUsecase(repo, &mockUploader{})

			user, err := uc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", user.Token)
			assert.Equal(t, "alice", user.Account.Username)
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()
		failing := &mockUserRepository{FindByEmailFunc: func(string) (*entity.User, error) {
			return nil, errors.New("db down")
		}}
		uc := NewUserUsecase(failing, &mockUploader{})

		_, err := uc.Login(context.Background(), "a@x.io", "pw")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserUsecase_Authenticate(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepository{FindByTokenFunc: func(token string) (*entity.User, error) {
		if token == "tok" {
			return &entity.User{ID: "u1"}, nil
		}
		return nil, ErrUserNotFound
	}}
	uc := NewUserUsecase(repo, &mockUploader{})

	user, err := uc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = uc.Authenticate(context.Background(), "other")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
