package memory

import (
	"context"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

// write stores both locations; the caller holds the lock.
func (r *attendanceRepositoryImpl) write(date attendance.Date, rec attendance.Record) {
	r.store.ledger[ledgerKey{date: date, userID: rec.UserID}] = rec
	if r.store.userCopies[rec.UserID] == nil {
		r.store.userCopies[rec.UserID] = make(map[string]attendance.Record)
	}
	r.store.userCopies[rec.UserID][date.Key()] = rec
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.ledger[ledgerKey{date: date, userID: rec.UserID}]; exists {
		return attendance.ErrAlreadyMarked
	}
	r.write(date, rec)
	return nil
}

func (r *attendanceRepositoryImpl) Put(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.write(date, rec)
	return nil
}

func (r *attendanceRepositoryImpl) Get(ctx context.Context, userID string, date attendance.Date) (*attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.ledger[ledgerKey{date: date, userID: userID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *attendanceRepositoryImpl) ListDay(ctx context.Context, date attendance.Date) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []attendance.Record
	for key, rec := range r.store.ledger {
		if key.date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *attendanceRepositoryImpl) ListUserMonth(ctx context.Context, userID string, year int, month time.Month) (map[int]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make(map[int]attendance.Record)
	copies := r.store.userCopies[userID]
	for day := 1; day <= attendance.DaysIn(year, month); day++ {
		date := attendance.Date{Year: year, Month: month, Day: day}
		if rec, ok := copies[date.Key()]; ok {
			out[day] = rec
		}
	}
	return out, nil
}

func (r *attendanceRepositoryImpl) Reconcile(ctx context.Context, year int, month time.Month) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := 0
	for key, rec := range r.store.ledger {
		if key.date.Year != year || key.date.Month != month {
			continue
		}
		if _, ok := r.store.userCopies[key.userID][key.date.Key()]; ok {
			continue
		}
		if r.store.userCopies[key.userID] == nil {
			r.store.userCopies[key.userID] = make(map[string]attendance.Record)
		}
		r.store.userCopies[key.userID][key.date.Key()] = rec
		copied++
	}
	return copied, nil
}
