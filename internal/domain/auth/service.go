package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
}

// IdentityProvider verifies passwords and manages the accounts behind user ids.
type IdentityProvider interface {
	// SignIn returns the user id of the account with these credentials.
	SignIn(ctx context.Context, email, password string) (string, error)
	CreateAccount(ctx context.Context, account Account) (string, error)
	UpdateAccount(ctx context.Context, id string, update AccountUpdate) error
	DeleteAccount(ctx context.Context, id string) error
}
