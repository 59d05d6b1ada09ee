package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/user"
)

type UserServiceImpl struct {
	user.UserRepository
	identity auth.IdentityProvider
	now      func() time.Time
}

func NewUserService(userRepository user.UserRepository, identity auth.IdentityProvider) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		identity:       identity,
		now:            time.Now,
	}
}

func currentUserID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid: %w", auth.ErrInvalidToken)
	}
	return userID, nil
}

// GetAccount implements user.UserService. The users document decides the role
// unless an admin document exists for the same id, which always means admin.
func (s *UserServiceImpl) GetAccount(ctx context.Context, id string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
		}
		admin, err := s.UserRepository.GetAdminByID(ctx, id)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return user.User{}, err
			}
			return user.User{}, fmt.Errorf("failed to get admin %s: %w", id, err)
		}
		return admin, nil
	}

	if !u.IsAdmin() {
		_, err := s.UserRepository.GetAdminByID(ctx, id)
		switch {
		case err == nil:
			u.Role = user.RoleAdmin
		case !errors.Is(err, user.ErrUserNotFound):
			return user.User{}, fmt.Errorf("failed to get admin %s: %w", id, err)
		}
	}
	return u, nil
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context) (user.UserResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}

	// Administrators keep their profile in the admin collection
	if account.IsAdmin() {
		if admin, err := s.UserRepository.GetAdminByID(ctx, userID); err == nil {
			return user.NewUserResponse(admin), nil
		}
	}
	return user.NewUserResponse(account), nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	userID, err := currentUserID(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	now := s.now()
	apply := func(u *user.User) {
		u.Name = req.Name
		u.Phone = req.Phone
		u.Stamp(now)
	}

	profile := account
	fromAdmin := false
	if account.IsAdmin() {
		admin, err := s.UserRepository.GetAdminByID(ctx, userID)
		switch {
		case err == nil:
			apply(&admin)
			if err := s.UserRepository.SaveAdmin(ctx, admin); err != nil {
				return user.UserResponse{}, fmt.Errorf("failed to update admin profile: %w", err)
			}
			profile, fromAdmin = admin, true
		case !errors.Is(err, user.ErrUserNotFound):
			return user.UserResponse{}, fmt.Errorf("failed to get admin %s: %w", userID, err)
		}
	}

	// The users document keeps its stored role; promotion lives in the admin document
	stored, err := s.UserRepository.GetByID(ctx, userID)
	switch {
	case err == nil:
		apply(&stored)
		if err := s.UserRepository.Update(ctx, stored); err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to update profile: %w", err)
		}
		if !fromAdmin {
			profile = stored
			profile.Role = account.Role
		}
	case !errors.Is(err, user.ErrUserNotFound):
		return user.UserResponse{}, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	if err := s.identity.UpdateAccount(ctx, userID, auth.AccountUpdate{Name: req.Name}); err != nil {
		slog.Warn("failed to sync display name to identity provider", "user_id", userID, "error", err)
	}
	return user.NewUserResponse(profile), nil
}

// ListEmployees implements user.UserService.
func (s *UserServiceImpl) ListEmployees(ctx context.Context) ([]user.UserResponse, error) {
	employees, err := s.UserRepository.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	responses := make([]user.UserResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, user.NewUserResponse(e))
	}
	return responses, nil
}

// CreateEmployee implements user.UserService. The identity account is removed
// again when the profile cannot be written.
func (s *UserServiceImpl) CreateEmployee(ctx context.Context, req user.CreateEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	id, err := s.identity.CreateAccount(ctx, auth.Account{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return user.UserResponse{}, user.ErrUserEmailExists
		}
		return user.UserResponse{}, fmt.Errorf("failed to create identity account: %w", err)
	}

	newUser := user.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  user.RoleEmployee,
	}
	newUser.Stamp(s.now())

	if err := s.UserRepository.Create(ctx, newUser); err != nil {
		if delErr := s.identity.DeleteAccount(ctx, id); delErr != nil {
			slog.Error("failed to roll back identity account", "user_id", id, "error", delErr)
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user profile: %w", err)
	}

	slog.Info("employee created", "user_id", id, "email", newUser.Email)
	return user.NewUserResponse(newUser), nil
}

// UpdateEmployee implements user.UserService.
func (s *UserServiceImpl) UpdateEmployee(ctx context.Context, id string, req user.UpdateEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Email != existing.Email || req.Name != existing.Name {
		update := auth.AccountUpdate{Name: req.Name}
		if req.Email != existing.Email {
			update.Email = req.Email
		}
		if err := s.identity.UpdateAccount(ctx, id, update); err != nil {
			if errors.Is(err, auth.ErrEmailAlreadyExists) {
				return user.UserResponse{}, user.ErrUserEmailExists
			}
			return user.UserResponse{}, fmt.Errorf("failed to update identity account: %w", err)
		}
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Role = user.ParseRole(req.Role)
	existing.Stamp(s.now())

	if err := s.UserRepository.Update(ctx, existing); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user.NewUserResponse(existing), nil
}

// DeleteEmployee implements user.UserService. Attendance history stays in place.
func (s *UserServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	callerID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if callerID == id {
		return user.ErrCannotDeleteSelf
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.identity.DeleteAccount(ctx, id); err != nil && !errors.Is(err, auth.ErrAccountNotFound) {
		return fmt.Errorf("failed to delete identity account: %w", err)
	}

	slog.Info("employee deleted", "user_id", id)
	return nil
}

// EnsureAdmin implements user.UserService. It signs in with the seed
// credentials, creating the account when it does not exist yet, and writes the
// admin profile if it is missing.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, req user.CreateEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	id, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			return user.UserResponse{}, fmt.Errorf("failed to sign in seed admin: %w", err)
		}
		id, err = s.identity.CreateAccount(ctx, auth.Account{Email: req.Email, Password: req.Password, Name: req.Name})
		if err != nil {
			if errors.Is(err, auth.ErrEmailAlreadyExists) {
				return user.UserResponse{}, fmt.Errorf("seed admin %s exists with a different password: %w", req.Email, err)
			}
			return user.UserResponse{}, fmt.Errorf("failed to create seed admin account: %w", err)
		}
	}

	if admin, err := s.UserRepository.GetAdminByID(ctx, id); err == nil {
		return user.NewUserResponse(admin), nil
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, fmt.Errorf("failed to get admin: %w", err)
	}

	admin := user.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  user.RoleAdmin,
	}
	admin.Stamp(s.now())
	if err := s.UserRepository.SaveAdmin(ctx, admin); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to save admin profile: %w", err)
	}

	slog.Info("admin account seeded", "user_id", id, "email", admin.Email)
	return user.NewUserResponse(admin), nil
}
