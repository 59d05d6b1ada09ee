package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	identity auth.IdentityProvider
	users    user.UserService
	jwt.Service
	allowSignup bool
}

func NewAuthService(identity auth.IdentityProvider, userService user.UserService, jwtService jwt.Service, allowSignup bool) auth.AuthService {
	return &AuthServiceImpl{
		identity:    identity,
		users:       userService,
		Service:     jwtService,
		allowSignup: allowSignup,
	}
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	tokenResponse.UserID = u.ID
	tokenResponse.Role = string(u.Role)
	return tokenResponse, nil
}

// Register implements auth.AuthService. New accounts are always employees.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest) (auth.TokenResponse, error) {
	if !a.allowSignup {
		return auth.TokenResponse{}, auth.ErrSignupDisabled
	}
	if err := registerReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	created, err := a.users.CreateEmployee(ctx, user.CreateEmployeeRequest{
		Name:     registerReq.Name,
		Email:    registerReq.Email,
		Phone:    registerReq.Phone,
		Password: registerReq.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
		}
		return auth.TokenResponse{}, err
	}

	return a.issueTokens(user.User{
		ID:    created.ID,
		Email: created.Email,
		Role:  user.RoleEmployee,
	})
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, err := a.identity.SignIn(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return auth.TokenResponse{}, err
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to sign in: %w", err)
	}

	// The identity provider only knows the account; the role lives with the profile
	account, err := a.users.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Warn("signed in account has no profile", "user_id", userID)
			return auth.TokenResponse{}, auth.ErrProfileMissing
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get account: %w", err)
	}

	return a.issueTokens(account)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	if _, err := jwtauth.VerifyToken(a.JWTAuth(), refreshToken); err != nil {
		return auth.ErrInvalidToken
	}
	if !a.Service.IsTokenRevoked(refreshToken) {
		a.Service.RevokeToken(refreshToken)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify JWT signature and expiry
	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check token type is "refresh"
	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TokenTypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Check revocation
	if a.Service.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 4. Resolve the current role, it may have changed since login
	account, err := a.users.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrProfileMissing
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get account: %w", err)
	}

	// 5. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}
