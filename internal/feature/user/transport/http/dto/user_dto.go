// Package dto defines data transfer objects for the user feature's HTTP transport layer.
package dto

import "marketplace_backend/internal/feature/user/domain/entity"

// LoginReq represents the request body for /user/login. Both JSON and form bodies are accepted.
// Fields are not validated here; the usecase maps a missing field to its status.
type LoginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Account is the public profile exposed to clients.
type Account struct {
	Username string `json:"username"`
}

// SignupRes is returned by /user/signup.
type SignupRes struct {
	Message string  `json:"message"`
	ID      string  `json:"_id"`
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// LoginRes is returned by /user/login.
type LoginRes struct {
	Message string  `json:"message"`
	ID      string  `json:"_id"`
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

func NewSignupRes(u *entity.User) SignupRes {
	return SignupRes{
		Message: "User Created",
		ID:      u.ID,
		Account: Account{Username: u.Account.Username},
		Token:   u.Token,
	}
}

func NewLoginRes(u *entity.User) LoginRes {
	return LoginRes{
		Message: "Login successful",
		ID:      u.ID,
		Token:   u.Token,
		Account: Account{Username: u.Account.Username},
	}
}
