package authmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_backend/internal/feature/user/domain/entity"
	"marketplace_backend/internal/feature/user/usecase"
)

// TestMain sets Gin to test mode before running the tests.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubAuthenticator is a mock implementation of TokenAuthenticator.
type stubAuthenticator struct {
	AuthenticateFunc func(token string) (*entity.User, error)
	lastToken        string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*entity.User, error) {
	s.lastToken = token
	if s.AuthenticateFunc != nil {
		return s.AuthenticateFunc(token)
	}
	return nil, usecase.ErrUserNotFound
}

func knownToken(token string) (*entity.User, error) {
	switch token {
	case "tok":
		return &entity.User{ID: "u1", Account: entity.Account{Username: "alice"}}, nil
	case "explode":
		return nil, errors.New("db down")
	default:
		return nil, usecase.ErrUserNotFound
	}
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
		expectedToken  string
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Unauthorized, provide a token"}`,
		},
		{
			name:           "unknown token",
			authHeader:     "Bearer nope",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Unauthorized, this user doesn't exists"}`,
			expectedToken:  "nope",
		},
		{
			name:           "token without bearer prefix is looked up as-is",
			authHeader:     "tok",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"user_id":"u1"}`,
			expectedToken:  "tok",
		},
		{
			name:           "lowercase scheme is not stripped",
			authHeader:     "bearer tok",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Unauthorized, this user doesn't exists"}`,
			expectedToken:  "bearer tok",
		},
		{
			name:           "valid bearer token",
			authHeader:     "Bearer tok",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"user_id":"u1"}`,
			expectedToken:  "tok",
		},
		{
			name:           "lookup failure",
			authHeader:     "Bearer explode",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"db down"}`,
			expectedToken:  "explode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthenticator{AuthenticateFunc: knownToken}
			router := gin.New()
			router.GET("/protected", AuthRequired(stub), func(c *gin.Context) {
				user, ok := CurrentUser(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedToken, stub.lastToken)
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	user, ok := CurrentUser(c)
	assert.False(t, ok)
	assert.Nil(t, user)

	c.Set(ContextUser, "not a user")
	_, ok = CurrentUser(c)
	assert.False(t, ok)
}
