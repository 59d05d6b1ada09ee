package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewCredentialRepository(db)
	cred := auth.Credential{UserID: "u1", Email: "ravi@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}

	require.NoError(t, repo.Create(ctx, cred))
	assert.ErrorIs(t, repo.Create(ctx, auth.Credential{UserID: "u2", Email: "ravi@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}), auth.ErrEmailAlreadyExists)

	got, err := repo.GetByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	got.Email = "ravi.k@example.com"
	require.NoError(t, repo.Update(ctx, got))
	byID, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ravi.k@example.com", byID.Email)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.GetByEmail(ctx, "ravi.k@example.com")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}
