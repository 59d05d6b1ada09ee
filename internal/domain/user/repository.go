package user

import (
	"context"
)

// UserRepository stores profiles in the users collection and administrator
// profiles in the admin collection.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetAdminByID(ctx context.Context, id string) (User, error)
	ListEmployees(ctx context.Context) ([]User, error)
	Create(ctx context.Context, newUser User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	SaveAdmin(ctx context.Context, admin User) error
}
