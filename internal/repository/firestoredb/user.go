package firestoredb

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"google.golang.org/api/iterator"
)

type userRepositoryImpl struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) user.UserRepository {
	return &userRepositoryImpl{client: client}
}

func (r *userRepositoryImpl) get(ctx context.Context, collection, id string) (user.User, error) {
	snap, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return user.User{}, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return doc.toUser(id), nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.get(ctx, usersCollection, id)
}

// GetAdminByID implements user.UserRepository.
func (r *userRepositoryImpl) GetAdminByID(ctx context.Context, id string) (user.User, error) {
	admin, err := r.get(ctx, adminCollection, id)
	if err != nil {
		return user.User{}, err
	}
	admin.Role = user.RoleAdmin
	return admin, nil
}

// ListEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListEmployees(ctx context.Context) ([]user.User, error) {
	iter := r.client.Collection(usersCollection).Where("role", "!=", string(user.RoleAdmin)).Documents(ctx)
	defer iter.Stop()

	var users []user.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		users = append(users, doc.toUser(snap.Ref.ID))
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) error {
	if _, err := r.client.Collection(usersCollection).Doc(newUser.ID).Set(ctx, newUserDoc(newUser)); err != nil {
		return fmt.Errorf("failed to write user %s: %w", newUser.ID, err)
	}
	return nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	_, err := r.client.Collection(usersCollection).Doc(u.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: u.Name},
		{Path: "email", Value: u.Email},
		{Path: "phone", Value: u.Phone},
		{Path: "role", Value: string(u.Role)},
		{Path: "updatedAt", Value: u.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	return nil
}

// Delete implements user.UserRepository. Attendance history is left in place.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// SaveAdmin implements user.UserRepository.
func (r *userRepositoryImpl) SaveAdmin(ctx context.Context, admin user.User) error {
	admin.Role = user.RoleAdmin
	if _, err := r.client.Collection(adminCollection).Doc(admin.ID).Set(ctx, newUserDoc(admin)); err != nil {
		return fmt.Errorf("failed to write admin %s: %w", admin.ID, err)
	}
	return nil
}
