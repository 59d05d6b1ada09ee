package memory

import (
	"context"

	"github.com/petropump/attendance-backend/internal/domain/auth"
)

type credentialRepositoryImpl struct {
	store *Store
}

func NewCredentialRepository(store *Store) auth.CredentialRepository {
	return &credentialRepositoryImpl{store: store}
}

func (r *credentialRepositoryImpl) emailTaken(email, exceptUserID string) bool {
	for id, c := range r.store.credentials {
		if c.Email == email && id != exceptUserID {
			return true
		}
	}
	return false
}

func (r *credentialRepositoryImpl) Create(ctx context.Context, cred auth.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.emailTaken(cred.Email, "") {
		return auth.ErrEmailAlreadyExists
	}
	r.store.credentials[cred.UserID] = cred
	return nil
}

func (r *credentialRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.credentials {
		if c.Email == email {
			return c, nil
		}
	}
	return auth.Credential{}, auth.ErrAccountNotFound
}

func (r *credentialRepositoryImpl) GetByUserID(ctx context.Context, userID string) (auth.Credential, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.credentials[userID]
	if !ok {
		return auth.Credential{}, auth.ErrAccountNotFound
	}
	return c, nil
}

func (r *credentialRepositoryImpl) Update(ctx context.Context, cred auth.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.credentials[cred.UserID]; !ok {
		return auth.ErrAccountNotFound
	}
	if r.emailTaken(cred.Email, cred.UserID) {
		return auth.ErrEmailAlreadyExists
	}
	r.store.credentials[cred.UserID] = cred
	return nil
}

func (r *credentialRepositoryImpl) Delete(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.credentials[userID]; !ok {
		return auth.ErrAccountNotFound
	}
	delete(r.store.credentials, userID)
	return nil
}
