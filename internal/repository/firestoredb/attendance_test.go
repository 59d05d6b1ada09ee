package firestoredb

import (
	"context"
	"testing"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
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

func TestAttendanceRepository_CreateWritesBothLocations(t *testing.T) {
	client := newTestClient(t)
	repo := NewAttendanceRepository(client)
	ctx := context.Background()

	userID := uniqueID("emp")
	date := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	at := time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, date, presentRecord(userID, at)))

	ledger, err := client.Doc("attendance/2024/3/5/employees/" + userID).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "present", ledger.Data()["status"])

	userCopy, err := client.Doc("users/" + userID + "/attendance/2024-3-5").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, userCopy.Data()["userId"])

	err = repo.Create(ctx, date, presentRecord(userID, at.Add(time.Hour)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	got, err := repo.Get(ctx, userID, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Timestamp.Equal(at))
}

func TestAttendanceRepository_PutAndListUserMonth(t *testing.T) {
	client := newTestClient(t)
	repo := NewAttendanceRepository(client)
	ctx := context.Background()

	userID := uniqueID("emp")
	march5 := attendance.Date{Year: 2024, Month: time.March, Day: 5}
	april1 := attendance.Date{Year: 2024, Month: time.April, Day: 1}

	require.NoError(t, repo.Create(ctx, march5, presentRecord(userID, time.Now())))
	require.NoError(t, repo.Put(ctx, march5, attendance.Record{UserID: userID, UserName: "Ravi", Timestamp: time.Now(), Status: attendance.StatusOnLeave}))
	require.NoError(t, repo.Create(ctx, april1, presentRecord(userID, time.Now())))

	month, err := repo.ListUserMonth(ctx, userID, 2024, time.March)
	require.NoError(t, err)
	require.Len(t, month, 1)
	assert.Equal(t, attendance.StatusOnLeave, month[5].Status)
	assert.Nil(t, month[5].Latitude)
}

func TestAttendanceRepository_GetMissing(t *testing.T) {
	client := newTestClient(t)
	repo := NewAttendanceRepository(client)

	got, err := repo.Get(context.Background(), uniqueID("nobody"), attendance.Date{Year: 2024, Month: time.January, Day: 2})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceRepository_ReconcileBackfillsUserCopy(t *testing.T) {
	client := newTestClient(t)
	repo := NewAttendanceRepository(client)
	ctx := context.Background()

	userID := uniqueID("emp")
	// Far-off year so other runs against the same emulator do not interfere
	date := attendance.Date{Year: 2091, Month: time.June, Day: 12}
	require.NoError(t, repo.Create(ctx, date, presentRecord(userID, time.Now())))

	_, err := client.Doc("users/" + userID + "/attendance/" + date.Key()).Delete(ctx)
	require.NoError(t, err)

	copied, err := repo.Reconcile(ctx, 2091, time.June)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, copied, 1)

	month, err := repo.ListUserMonth(ctx, userID, 2091, time.June)
	require.NoError(t, err)
	assert.Contains(t, month, 12)
}

func TestAttendanceRepository_MissingStatusReadsAsPresent(t *testing.T) {
	client := newTestClient(t)
	repo := NewAttendanceRepository(client)
	ctx := context.Background()

	date := attendance.Date{Year: 2024, Month: time.March, Day: 7}
	bare, tagged := uniqueID("emp"), uniqueID("emp")
	_, err := client.Doc("attendance/2024/3/7/employees/"+bare).Set(ctx, map[string]interface{}{
		"userId":    bare,
		"userName":  "Ravi",
		"timestamp": time.Date(2024, 3, 7, 4, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = client.Doc("attendance/2024/3/7/employees/"+tagged).Set(ctx, map[string]interface{}{
		"userId":    tagged,
		"timestamp": time.Date(2024, 3, 7, 4, 0, 0, 0, time.UTC),
		"status":    "late",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, bare, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusPresent, got.Status)

	other, err := repo.Get(ctx, tagged, date)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, attendance.Status("late"), other.Status)
}
