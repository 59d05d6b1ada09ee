package auth

import (
	"context"
	"time"
)

// Credential is a locally stored password hash.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CredentialRepository backs the local identity provider.
type CredentialRepository interface {
	Create(ctx context.Context, cred Credential) error
	GetByEmail(ctx context.Context, email string) (Credential, error)
	GetByUserID(ctx context.Context, userID string) (Credential, error)
	Update(ctx context.Context, cred Credential) error
	Delete(ctx context.Context, userID string) error
}
