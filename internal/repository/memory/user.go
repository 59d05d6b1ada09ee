package memory

import (
	"context"
	"sort"

	"github.com/petropump/attendance-backend/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepositoryImpl) GetAdminByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.admins[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Role = user.RoleAdmin
	return u, nil
}

func (r *userRepositoryImpl) ListEmployees(ctx context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []user.User
	for _, u := range r.store.users {
		if u.Role != user.RoleAdmin {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[newUser.ID] = newUser
	return nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CreatedAt = existing.CreatedAt
	r.store.users[u.ID] = u
	return nil
}

func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.store.users, id)
	return nil
}

func (r *userRepositoryImpl) SaveAdmin(ctx context.Context, admin user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	admin.Role = user.RoleAdmin
	r.store.admins[admin.ID] = admin
	return nil
}
