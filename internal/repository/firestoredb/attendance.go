package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type attendanceRepositoryImpl struct {
	client *firestore.Client
}

func NewAttendanceRepository(client *firestore.Client) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{client: client}
}

func (r *attendanceRepositoryImpl) dayCollection(date attendance.Date) *firestore.CollectionRef {
	year, month, day := date.Segments()
	return r.client.Collection(attendanceCollection).Doc(year).Collection(month).Doc(day).Collection(employeesCollection)
}

func (r *attendanceRepositoryImpl) ledgerRef(date attendance.Date, userID string) *firestore.DocumentRef {
	return r.dayCollection(date).Doc(userID)
}

func (r *attendanceRepositoryImpl) userCopyRef(date attendance.Date, userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(attendanceCollection).Doc(date.Key())
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	ledger := r.ledgerRef(date, rec.UserID)
	userCopy := r.userCopyRef(date, rec.UserID)
	doc := newRecordDoc(rec)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ledger); err == nil {
			return attendance.ErrAlreadyMarked
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.Set(ledger, doc); err != nil {
			return err
		}
		return tx.Set(userCopy, doc)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return err
		}
		return fmt.Errorf("failed to create attendance for %s on %s: %w", rec.UserID, date, err)
	}
	return nil
}

// Put implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Put(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	ledger := r.ledgerRef(date, rec.UserID)
	userCopy := r.userCopyRef(date, rec.UserID)
	doc := newRecordDoc(rec)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(ledger, doc); err != nil {
			return err
		}
		return tx.Set(userCopy, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to write attendance for %s on %s: %w", rec.UserID, date, err)
	}
	return nil
}

// Get implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Get(ctx context.Context, userID string, date attendance.Date) (*attendance.Record, error) {
	snap, err := r.ledgerRef(date, userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for %s on %s: %w", userID, date, err)
	}
	rec, err := decodeRecord(snap, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attendance for %s on %s: %w", userID, date, err)
	}
	return &rec, nil
}

// ListDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListDay(ctx context.Context, date attendance.Date) ([]attendance.Record, error) {
	iter := r.dayCollection(date).Documents(ctx)
	defer iter.Stop()

	var records []attendance.Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance on %s: %w", date, err)
		}
		rec, err := decodeRecord(snap, snap.Ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attendance %s on %s: %w", snap.Ref.ID, date, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListUserMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListUserMonth(ctx context.Context, userID string, year int, month time.Month) (map[int]attendance.Record, error) {
	days := attendance.DaysIn(year, month)
	refs := make([]*firestore.DocumentRef, 0, days)
	for day := 1; day <= days; day++ {
		refs = append(refs, r.userCopyRef(attendance.Date{Year: year, Month: month, Day: day}, userID))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance of %s for %d-%02d: %w", userID, year, int(month), err)
	}

	records := make(map[int]attendance.Record)
	for i, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		rec, err := decodeRecord(snap, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attendance %s: %w", snap.Ref.Path, err)
		}
		records[i+1] = rec
	}
	return records, nil
}

// Reconcile implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Reconcile(ctx context.Context, year int, month time.Month) (int, error) {
	bw := r.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob

	for day := 1; day <= attendance.DaysIn(year, month); day++ {
		date := attendance.Date{Year: year, Month: month, Day: day}
		records, err := r.ListDay(ctx, date)
		if err != nil {
			bw.End()
			return 0, err
		}
		if len(records) == 0 {
			continue
		}

		refs := make([]*firestore.DocumentRef, len(records))
		for i, rec := range records {
			refs[i] = r.userCopyRef(date, rec.UserID)
		}
		snaps, err := r.client.GetAll(ctx, refs)
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("failed to read per-user attendance on %s: %w", date, err)
		}

		for i, snap := range snaps {
			if snap.Exists() {
				continue
			}
			job, err := bw.Create(refs[i], newRecordDoc(records[i]))
			if err != nil {
				bw.End()
				return 0, fmt.Errorf("failed to queue attendance copy %s: %w", refs[i].Path, err)
			}
			jobs = append(jobs, job)
		}
	}
	bw.End()

	copied := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			// A concurrent mark wrote the copy first
			if status.Code(err) == codes.AlreadyExists {
				continue
			}
			return copied, fmt.Errorf("failed to copy attendance: %w", err)
		}
		copied++
	}
	return copied, nil
}
