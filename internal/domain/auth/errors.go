package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrAccountNotFound     = errors.New("identity account not found")
	ErrSignupDisabled      = errors.New("self registration is disabled")
	ErrProfileMissing      = errors.New("signed in account has no profile")
)
