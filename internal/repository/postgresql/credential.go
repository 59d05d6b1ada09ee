package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/pkg/database"
)

const uniqueViolation = "23505"

type credentialRepositoryImpl struct {
	db *database.DB
}

func NewCredentialRepository(db *database.DB) auth.CredentialRepository {
	return &credentialRepositoryImpl{db: db}
}

func scanCredential(row pgx.Row) (auth.Credential, error) {
	var c auth.Credential
	if err := row.Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Credential{}, auth.ErrAccountNotFound
		}
		return auth.Credential{}, fmt.Errorf("failed to get credential: %w", err)
	}
	return c, nil
}

// Create implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Create(ctx context.Context, cred auth.Credential) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, cred.UserID, cred.Email, cred.PasswordHash, cred.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

// GetByEmail implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)
	return scanCredential(q.QueryRow(ctx, `
		SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = $1
	`, email))
}

// GetByUserID implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByUserID(ctx context.Context, userID string) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)
	return scanCredential(q.QueryRow(ctx, `
		SELECT user_id, email, password_hash, created_at FROM credentials WHERE user_id = $1
	`, userID))
}

// Update implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Update(ctx context.Context, cred auth.Credential) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE credentials SET email = $2, password_hash = $3 WHERE user_id = $1
	`, cred.UserID, cred.Email, cred.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

// Delete implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Delete(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM credentials WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}
