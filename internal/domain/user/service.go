package user

import "context"

type UserService interface {
	// GetAccount resolves a signed-in identity to its profile and role.
	GetAccount(ctx context.Context, id string) (User, error)
	GetProfile(ctx context.Context) (UserResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)

	ListEmployees(ctx context.Context) ([]UserResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (UserResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (UserResponse, error)
	DeleteEmployee(ctx context.Context, id string) error

	EnsureAdmin(ctx context.Context, req CreateEmployeeRequest) (UserResponse, error)
}
