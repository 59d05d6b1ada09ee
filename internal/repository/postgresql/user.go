package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	u.Role = user.ParseRole(role)
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRow(ctx, `
		SELECT id, name, email, phone, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

// GetAdminByID implements user.UserRepository.
func (r *userRepositoryImpl) GetAdminByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRow(ctx, `
		SELECT id, name, email, phone, role, created_at, updated_at
		FROM admins
		WHERE id = $1
	`, id)
	admin, err := scanUser(row)
	if err != nil {
		return user.User{}, err
	}
	admin.Role = user.RoleAdmin
	return admin, nil
}

// ListEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListEmployees(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, name, email, phone, role, created_at, updated_at
		FROM users
		WHERE role <> $1
		ORDER BY name, id
	`, string(user.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, newUser.ID, newUser.Name, newUser.Email, newUser.Phone, string(newUser.Role), newUser.CreatedAt, newUser.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, phone = $4, role = $5, updated_at = $6
		WHERE id = $1
	`, u.ID, u.Name, u.Email, u.Phone, string(u.Role), u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SaveAdmin implements user.UserRepository.
func (r *userRepositoryImpl) SaveAdmin(ctx context.Context, admin user.User) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO admins (id, name, email, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'admin', $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at
	`, admin.ID, admin.Name, admin.Email, admin.Phone, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save admin profile: %w", err)
	}
	return nil
}
