package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores each record twice: in the daily ledger
// attendance/{y}/{m}/{d}/employees/{userId} and in users/{userId}/attendance/{y}-{m}-{d}.
// Both writes happen in one transaction.
type AttendanceRepository interface {
	// Create writes a record unless the ledger already holds one for that user and day.
	// Returns ErrAlreadyMarked in that case.
	Create(ctx context.Context, date Date, rec Record) error

	// Put writes a record, replacing whatever is stored for that user and day.
	Put(ctx context.Context, date Date, rec Record) error

	// Get reads the ledger entry. A missing record is (nil, nil).
	Get(ctx context.Context, userID string, date Date) (*Record, error)

	// ListDay returns every ledger entry of a day.
	ListDay(ctx context.Context, date Date) ([]Record, error)

	// ListUserMonth reads the per-user copies of a month keyed by day of month.
	ListUserMonth(ctx context.Context, userID string, year int, month time.Month) (map[int]Record, error)

	// Reconcile copies ledger entries of a month that lack a per-user copy
	// and returns how many were written.
	Reconcile(ctx context.Context, year int, month time.Month) (int, error)
}
