// Package memory keeps the document layout in process memory. It backs the
// "memory" store driver used for local development and tests.
package memory

import (
	"sync"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/user"
)

type ledgerKey struct {
	date   attendance.Date
	userID string
}

// Store holds every collection behind one lock, so the two attendance writes
// are observed together.
type Store struct {
	mu          sync.RWMutex
	users       map[string]user.User
	admins      map[string]user.User
	credentials map[string]auth.Credential // by user id
	ledger      map[ledgerKey]attendance.Record
	userCopies  map[string]map[string]attendance.Record // user id -> day key -> record
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		admins:      make(map[string]user.User),
		credentials: make(map[string]auth.Credential),
		ledger:      make(map[ledgerKey]attendance.Record),
		userCopies:  make(map[string]map[string]attendance.Record),
	}
}

// DropUserCopy removes a per-user copy, leaving the ledger entry in place.
// It reproduces data written by clients that did not write both locations.
func (s *Store) DropUserCopy(userID string, date attendance.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userCopies[userID], date.Key())
}
