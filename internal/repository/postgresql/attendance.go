package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const upsertUserCopyQuery = `
	INSERT INTO user_attendance (user_id, day_key, year, month, day, user_name, marked_at, latitude, longitude, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (user_id, day_key) DO UPDATE
	SET user_name = EXCLUDED.user_name, marked_at = EXCLUDED.marked_at,
	    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, status = EXCLUDED.status
`

func (r *attendanceRepositoryImpl) writeUserCopy(ctx context.Context, q database.Querier, date attendance.Date, rec attendance.Record) error {
	_, err := q.Exec(ctx, upsertUserCopyQuery,
		rec.UserID, date.Key(), date.Year, int(date.Month), date.Day,
		rec.UserName, rec.Timestamp, rec.Latitude, rec.Longitude, string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to write per-user attendance copy: %w", err)
	}
	return nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(txCtx, `
			INSERT INTO attendance_ledger (year, month, day, user_id, user_name, marked_at, latitude, longitude, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (year, month, day, user_id) DO NOTHING
		`, date.Year, int(date.Month), date.Day, rec.UserID, rec.UserName, rec.Timestamp, rec.Latitude, rec.Longitude, string(rec.Status))
		if err != nil {
			return fmt.Errorf("failed to write attendance ledger: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrAlreadyMarked
		}
		return r.writeUserCopy(txCtx, tx, date, rec)
	})
}

// Put implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Put(ctx context.Context, date attendance.Date, rec attendance.Record) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(txCtx, `
			INSERT INTO attendance_ledger (year, month, day, user_id, user_name, marked_at, latitude, longitude, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (year, month, day, user_id) DO UPDATE
			SET user_name = EXCLUDED.user_name, marked_at = EXCLUDED.marked_at,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, status = EXCLUDED.status
		`, date.Year, int(date.Month), date.Day, rec.UserID, rec.UserName, rec.Timestamp, rec.Latitude, rec.Longitude, string(rec.Status))
		if err != nil {
			return fmt.Errorf("failed to write attendance ledger: %w", err)
		}
		return r.writeUserCopy(txCtx, tx, date, rec)
	})
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status string
	if err := row.Scan(&rec.UserID, &rec.UserName, &rec.Timestamp, &rec.Latitude, &rec.Longitude, &status); err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.ParseStatus(status)
	return rec, nil
}

// Get implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Get(ctx context.Context, userID string, date attendance.Date) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	rec, err := scanRecord(q.QueryRow(ctx, `
		SELECT user_id, user_name, marked_at, latitude, longitude, status
		FROM attendance_ledger
		WHERE year = $1 AND month = $2 AND day = $3 AND user_id = $4
	`, date.Year, int(date.Month), date.Day, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &rec, nil
}

// ListDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListDay(ctx context.Context, date attendance.Date) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT user_id, user_name, marked_at, latitude, longitude, status
		FROM attendance_ledger
		WHERE year = $1 AND month = $2 AND day = $3
	`, date.Year, int(date.Month), date.Day)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", date, err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListUserMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListUserMonth(ctx context.Context, userID string, year int, month time.Month) (map[int]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT day, user_id, user_name, marked_at, latitude, longitude, status
		FROM user_attendance
		WHERE user_id = $1 AND year = $2 AND month = $3
	`, userID, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to list user attendance: %w", err)
	}
	defer rows.Close()

	records := make(map[int]attendance.Record)
	for rows.Next() {
		var day int
		var rec attendance.Record
		var status string
		if err := rows.Scan(&day, &rec.UserID, &rec.UserName, &rec.Timestamp, &rec.Latitude, &rec.Longitude, &status); err != nil {
			return nil, fmt.Errorf("failed to scan user attendance: %w", err)
		}
		rec.Status = attendance.ParseStatus(status)
		records[day] = rec
	}
	return records, rows.Err()
}

// Reconcile implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Reconcile(ctx context.Context, year int, month time.Month) (int, error) {
	var copied int
	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(txCtx, `
			INSERT INTO user_attendance (user_id, day_key, year, month, day, user_name, marked_at, latitude, longitude, status)
			SELECT l.user_id, l.year || '-' || l.month || '-' || l.day, l.year, l.month, l.day,
			       l.user_name, l.marked_at, l.latitude, l.longitude, l.status
			FROM attendance_ledger l
			WHERE l.year = $1 AND l.month = $2
			ON CONFLICT (user_id, day_key) DO NOTHING
		`, year, int(month))
		if err != nil {
			return fmt.Errorf("failed to reconcile per-user copies: %w", err)
		}
		copied = int(tag.RowsAffected())
		return nil
	})
	return copied, err
}
