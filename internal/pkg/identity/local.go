// Package identity implements auth.IdentityProvider against Firebase
// Authentication or a local credential store.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps bcrypt password hashes in a CredentialRepository.
type LocalProvider struct {
	credentials auth.CredentialRepository
	cost        int
	now         func() time.Time
}

func NewLocalProvider(credentials auth.CredentialRepository) auth.IdentityProvider {
	return &LocalProvider{
		credentials: credentials,
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
	}
}

func (p *LocalProvider) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SignIn implements auth.IdentityProvider.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	cred, err := p.credentials.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return "", auth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get credential by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", auth.ErrInvalidCredentials
	}
	return cred.UserID, nil
}

// CreateAccount implements auth.IdentityProvider.
func (p *LocalProvider) CreateAccount(ctx context.Context, account auth.Account) (string, error) {
	hash, err := p.hashPassword(account.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	cred := auth.Credential{
		UserID:       uuid.NewString(),
		Email:        strings.ToLower(account.Email),
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		return "", err
	}
	return cred.UserID, nil
}

// UpdateAccount implements auth.IdentityProvider.
func (p *LocalProvider) UpdateAccount(ctx context.Context, id string, update auth.AccountUpdate) error {
	if update.Email == "" && update.Password == "" {
		return nil
	}

	cred, err := p.credentials.GetByUserID(ctx, id)
	if err != nil {
		return err
	}
	if update.Email != "" {
		cred.Email = strings.ToLower(update.Email)
	}
	if update.Password != "" {
		if cred.PasswordHash, err = p.hashPassword(update.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}
	return p.credentials.Update(ctx, cred)
}

// DeleteAccount implements auth.IdentityProvider.
func (p *LocalProvider) DeleteAccount(ctx context.Context, id string) error {
	return p.credentials.Delete(ctx, id)
}
