package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presentRecord(userID string, at time.Time) attendance.Record {
	lat, lng := 21.8705, 73.5025
	return attendance.Record{
		UserID:    userID,
		UserName:  "Ravi",
		Timestamp: at,
		Latitude:  &lat,
		Longitude: &lng,
		Status:    attendance.StatusPresent,
	}
}

func TestAttendanceRepository_Create_WritesBothLocations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}

	err := repo.Create(ctx, date, presentRecord("u1", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	rec, err := repo.Get(ctx, "u1", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.InDelta(t, 21.8705, *rec.Latitude, 1e-9)

	month, err := repo.ListUserMonth(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	assert.Contains(t, month, 5)

	var dayKey string
	require.NoError(t, db.QueryRow(ctx, `SELECT day_key FROM user_attendance WHERE user_id = 'u1'`).Scan(&dayKey))
	assert.Equal(t, "2024-3-5", dayKey)
}

func TestAttendanceRepository_Create_Twice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	first := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, date, presentRecord("u1", first)))
	err := repo.Create(ctx, date, presentRecord("u1", first.Add(time.Hour)))

	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	rec, err := repo.Get(ctx, "u1", date)
	require.NoError(t, err)
	assert.True(t, rec.Timestamp.Equal(first))
}

func TestAttendanceRepository_Put_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	require.NoError(t, repo.Create(ctx, date, presentRecord("u1", time.Now().UTC())))

	err := repo.Put(ctx, date, attendance.Record{UserID: "u1", UserName: "Ravi", Timestamp: time.Now().UTC(), Status: attendance.StatusOnLeave})
	require.NoError(t, err)

	rec, err := repo.Get(ctx, "u1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, rec.Status)
	assert.Nil(t, rec.Latitude)

	month, err := repo.ListUserMonth(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, month[5].Status)
}

func TestAttendanceRepository_Get_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)

	rec, err := repo.Get(context.Background(), "u1", attendance.Date{Year: 2024, Month: time.March, Day: 5})

	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAttendanceRepository_ListUserMonth_DoesNotLeakAcrossMonths(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	require.NoError(t, repo.Create(ctx, attendance.Date{Year: 2024, Month: time.January, Day: 5}, presentRecord("u1", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, attendance.Date{Year: 2024, Month: time.October, Day: 5}, presentRecord("u1", time.Now().UTC())))

	month, err := repo.ListUserMonth(ctx, "u1", 2024, time.January)

	require.NoError(t, err)
	assert.Len(t, month, 1)
}

func TestAttendanceRepository_ListDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	require.NoError(t, repo.Create(ctx, date, presentRecord("u1", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, date, presentRecord("u2", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, attendance.Date{Year: 2024, Month: time.March, Day: 6}, presentRecord("u3", time.Now().UTC())))

	records, err := repo.ListDay(ctx, date)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAttendanceRepository_Reconcile_RestoresMissingCopies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	require.NoError(t, repo.Create(ctx, date, presentRecord("u1", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, date, presentRecord("u2", time.Now().UTC())))
	_, err := db.Exec(ctx, `DELETE FROM user_attendance WHERE user_id = 'u1'`)
	require.NoError(t, err)

	copied, err := repo.Reconcile(ctx, 2024, time.March)

	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	month, err := repo.ListUserMonth(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	assert.Contains(t, month, 5)

	var dayKey string
	require.NoError(t, db.QueryRow(ctx, `SELECT day_key FROM user_attendance WHERE user_id = 'u1'`).Scan(&dayKey))
	assert.Equal(t, "2024-3-5", dayKey)
}

func TestAttendanceRepository_EmptyStatusReadsAsPresent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	require.NoError(t, repo.Create(ctx, date, presentRecord("u1", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, date, presentRecord("u2", time.Now().UTC())))
	for _, stmt := range []string{
		`UPDATE attendance_ledger SET status = '' WHERE user_id = 'u1'`,
		`UPDATE user_attendance SET status = '' WHERE user_id = 'u1'`,
		`UPDATE attendance_ledger SET status = 'late' WHERE user_id = 'u2'`,
	} {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}

	rec, err := repo.Get(ctx, "u1", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	month, err := repo.ListUserMonth(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, month[5].Status)

	other, err := repo.Get(ctx, "u2", date)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, attendance.Status("late"), other.Status)
}
