package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/geo"
	"github.com/petropump/attendance-backend/internal/pkg/identity"
	"github.com/petropump/attendance-backend/internal/pkg/sse"
	"github.com/petropump/attendance-backend/internal/pkg/validator"
	"github.com/petropump/attendance-backend/internal/repository/memory"
	usersvc "github.com/petropump/attendance-backend/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fixture struct {
	svc     *AttendanceServiceImpl
	records attendance.AttendanceRepository
	users   user.UserRepository
	hub     *sse.Hub
}

// newFixture builds the service on the memory store with the clock fixed at now.
func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	records := memory.NewAttendanceRepository(store)
	accounts := usersvc.NewUserService(users, identity.NewLocalProvider(memory.NewCredentialRepository(store)))
	hub := sse.NewHub()

	svc := NewAttendanceService(records, users, accounts, hub, geo.DefaultFence(), ist).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return fixture{svc: svc, records: records, users: users, hub: hub}
}

func (f fixture) addEmployee(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), user.User{
		ID:    id,
		Name:  name,
		Email: id + "@example.com",
		Role:  user.RoleEmployee,
	}))
}

func withClaims(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID, "role": string(role)})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func location(lat, lng float64) attendance.LocationRequest {
	return attendance.LocationRequest{Latitude: &lat, Longitude: &lng}
}

// Friday 15 March 2024, 10:00 at the pump
var midMarch = time.Date(2024, 3, 15, 10, 0, 0, 0, ist)

func TestAttendanceService_EvaluateLocation(t *testing.T) {
	f := newFixture(t, midMarch)

	got, err := f.svc.EvaluateLocation(context.Background(), location(21.8705, 73.5025))

	require.NoError(t, err)
	assert.True(t, got.Within)
	assert.InDelta(t, 11.8, got.DistanceMeters, 1)
	assert.Equal(t, 100.0, got.RadiusMeters)
	assert.Equal(t, "near", got.Proximity)
}

func TestAttendanceService_EvaluateLocation_Errors(t *testing.T) {
	f := newFixture(t, midMarch)
	ctx := context.Background()

	_, err := f.svc.EvaluateLocation(ctx, attendance.LocationRequest{})
	assert.ErrorIs(t, err, attendance.ErrLocationUnavailable)

	_, err = f.svc.EvaluateLocation(ctx, location(95, 73.5))
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestAttendanceService_MarkPresent(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	events, cleanup := f.hub.Subscribe(sse.TopicAdmins)
	defer cleanup()
	ctx := withClaims(t, "emp-1", user.RoleEmployee)

	got, err := f.svc.MarkPresent(ctx, location(21.8705, 73.5025))

	require.NoError(t, err)
	assert.Equal(t, "emp-1", got.UserID)
	assert.Equal(t, "Ravi", got.UserName)
	assert.Equal(t, "2024-03-15", got.Date)
	assert.Equal(t, attendance.StatusPresent, got.Status)

	stored, err := f.records.Get(ctx, "emp-1", attendance.Date{Year: 2024, Month: time.March, Day: 15})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, attendance.StatusPresent, stored.Status)

	select {
	case ev := <-events:
		assert.Equal(t, EventAttendanceMarked, ev.Event)
	default:
		t.Fatal("expected an attendance.marked event")
	}

	_, err = f.svc.MarkPresent(ctx, location(21.8705, 73.5025))
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
}

func TestAttendanceService_MarkPresent_OutsideFence(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.MarkPresent(ctx, location(21.9, 73.6))
	assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)

	_, err = f.svc.MarkPresent(ctx, attendance.LocationRequest{})
	assert.ErrorIs(t, err, attendance.ErrLocationUnavailable)

	rec, err := f.records.Get(ctx, "emp-1", attendance.Date{Year: 2024, Month: time.March, Day: 15})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAttendanceService_MarkPresent_UsesWorksiteDate(t *testing.T) {
	// 20:00 UTC on the 14th is already the 15th in India
	f := newFixture(t, time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC))
	f.addEmployee(t, "emp-1", "Ravi")

	got, err := f.svc.MarkPresent(withClaims(t, "emp-1", user.RoleEmployee), location(21.8705, 73.5025))

	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got.Date)
}

func TestAttendanceService_MarkPresent_RequiresClaims(t *testing.T) {
	f := newFixture(t, midMarch)

	_, err := f.svc.MarkPresent(context.Background(), location(21.8705, 73.5025))

	assert.Error(t, err)
}

func TestAttendanceService_GetToday(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)

	before, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.False(t, before.Marked)
	assert.Equal(t, attendance.DayAbsent, before.Status)
	assert.Nil(t, before.Record)

	_, err = f.svc.MarkPresent(ctx, location(21.8705, 73.5025))
	require.NoError(t, err)

	after, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.True(t, after.Marked)
	assert.Equal(t, attendance.DayPresent, after.Status)
	require.NotNil(t, after.Record)
}

func TestAttendanceService_GetMyMonthly(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)
	_, err := f.svc.MarkPresent(ctx, location(21.8705, 73.5025))
	require.NoError(t, err)

	got, err := f.svc.GetMyMonthly(ctx, attendance.PeriodQuery{Year: 2024, Month: 3})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.UserName)
	assert.Len(t, got.Days, 31)
	// Weekdays 1..15 are 11, weekends 2,3,9,10, future 16..31
	assert.Equal(t, attendance.Counts{Present: 1, Absent: 10, Weekend: 4, Future: 16}, got.Counts)
	assert.Equal(t, 9, got.Percentage)
}

func TestAttendanceService_GetMyMonthly_InvalidQuery(t *testing.T) {
	f := newFixture(t, midMarch)
	ctx := withClaims(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.GetMyMonthly(ctx, attendance.PeriodQuery{Year: 2024, Month: 13})

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestAttendanceService_GetMyYearly(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)
	require.NoError(t, f.records.Put(ctx, attendance.Date{Year: 2024, Month: time.January, Day: 2},
		attendance.Record{UserID: "emp-1", UserName: "Ravi", Timestamp: midMarch, Status: attendance.StatusPresent}))

	got, err := f.svc.GetMyYearly(ctx, attendance.YearQuery{Year: 2024})

	require.NoError(t, err)
	require.Len(t, got.Months, 12)
	for i, m := range got.Months {
		assert.Equal(t, i+1, m.Month)
	}
	assert.Equal(t, 1, got.Months[0].Counts.Present)
	assert.Equal(t, 31, got.Months[11].Counts.Future)
	assert.Equal(t, 1, got.Totals.Present)
	// 2024 is a leap year
	total := got.Totals.Present + got.Totals.Absent + got.Totals.OnLeave + got.Totals.Weekend + got.Totals.Future
	assert.Equal(t, 366, total)
}

func TestAttendanceService_GetMyYearly_CanceledContext(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx, cancel := context.WithCancel(withClaims(t, "emp-1", user.RoleEmployee))
	cancel()

	_, err := f.svc.GetMyYearly(ctx, attendance.YearQuery{Year: 2024})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttendanceService_GetDailyView(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	f.addEmployee(t, "emp-2", "Meena")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)
	_, err := f.svc.MarkPresent(ctx, location(21.8705, 73.5025))
	require.NoError(t, err)

	// Records of deleted users are ignored
	require.NoError(t, f.records.Put(ctx, attendance.Date{Year: 2024, Month: time.March, Day: 15},
		attendance.Record{UserID: "gone", UserName: "Gone", Timestamp: midMarch, Status: attendance.StatusPresent}))

	view, err := f.svc.GetDailyView(ctx, "2024-03-15")

	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.Present)
	assert.Equal(t, 1, view.Absent)
	assert.Equal(t, 0, view.OnLeave)
	byID := map[string]attendance.DayViewEntry{}
	for _, e := range view.Employees {
		byID[e.UserID] = e
	}
	assert.Equal(t, attendance.DayPresent, byID["emp-1"].Status)
	assert.NotNil(t, byID["emp-1"].MarkedAt)
	assert.Equal(t, attendance.DayAbsent, byID["emp-2"].Status)
}

func TestAttendanceService_GetDailyView_WeekendAndFuture(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := context.Background()

	weekend, err := f.svc.GetDailyView(ctx, "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, attendance.DayWeekend, weekend.Employees[0].Status)
	assert.Equal(t, 0, weekend.Absent)

	future, err := f.svc.GetDailyView(ctx, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, attendance.DayFuture, future.Employees[0].Status)

	_, err = f.svc.GetDailyView(ctx, "15-03-2024")
	assert.ErrorIs(t, err, attendance.ErrInvalidDate)
}

func TestAttendanceService_MarkLeave_Overwrites(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	employeeCtx := withClaims(t, "emp-1", user.RoleEmployee)
	adminCtx := withClaims(t, "admin-1", user.RoleAdmin)
	events, cleanup := f.hub.Subscribe(sse.TopicAdmins)
	defer cleanup()

	_, err := f.svc.MarkPresent(employeeCtx, location(21.8705, 73.5025))
	require.NoError(t, err)
	<-events

	got, err := f.svc.MarkLeave(adminCtx, attendance.LeaveRequest{UserID: "emp-1", Date: "2024-03-15"})

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, got.Status)
	assert.Nil(t, got.Latitude)
	ev := <-events
	assert.Equal(t, EventAttendanceLeave, ev.Event)

	month, err := f.records.ListUserMonth(adminCtx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, month[15].Status)
}

func TestAttendanceService_MarkLeave_Errors(t *testing.T) {
	f := newFixture(t, midMarch)
	ctx := withClaims(t, "admin-1", user.RoleAdmin)

	_, err := f.svc.MarkLeave(ctx, attendance.LeaveRequest{UserID: "ghost", Date: "2024-03-15"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = f.svc.MarkLeave(ctx, attendance.LeaveRequest{UserID: "emp-1", Date: "2024-02-30"})
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestAttendanceService_GetMonthlyStats(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	f.addEmployee(t, "emp-2", "Meena")
	ctx := withClaims(t, "emp-1", user.RoleEmployee)
	_, err := f.svc.MarkPresent(ctx, location(21.8705, 73.5025))
	require.NoError(t, err)
	require.NoError(t, f.records.Put(ctx, attendance.Date{Year: 2024, Month: time.March, Day: 14},
		attendance.Record{UserID: "emp-2", UserName: "Meena", Timestamp: midMarch, Status: attendance.StatusOnLeave}))

	stats, err := f.svc.GetMonthlyStats(ctx, attendance.PeriodQuery{Year: 2024, Month: 3})

	require.NoError(t, err)
	assert.Equal(t, 31, stats.DaysInMonth)
	require.Len(t, stats.Employees, 2)
	// ListEmployees orders by name
	meena, ravi := stats.Employees[0], stats.Employees[1]
	assert.Equal(t, "emp-2", meena.UserID)
	assert.Equal(t, attendance.DayOnLeave, meena.Days[13])
	assert.Equal(t, attendance.DayPresent, ravi.Days[14])
	assert.Equal(t, attendance.DayWeekend, ravi.Days[1])
	assert.Equal(t, attendance.DayFuture, ravi.Days[30])
	assert.Equal(t, attendance.Counts{Present: 1, Absent: 10, Weekend: 4, Future: 16}, ravi.Counts)
	assert.Equal(t, 1, stats.Totals.Present)
	assert.Equal(t, 1, stats.Totals.OnLeave)
	assert.Equal(t, 20, stats.Totals.Absent)
}

func TestAttendanceService_GetEmployeeMonthly(t *testing.T) {
	f := newFixture(t, midMarch)
	f.addEmployee(t, "emp-1", "Ravi")
	ctx := withClaims(t, "admin-1", user.RoleAdmin)

	got, err := f.svc.GetEmployeeMonthly(ctx, "emp-1", attendance.PeriodQuery{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Len(t, got.Days, 29)
	assert.Equal(t, "emp-1", got.UserID)

	_, err = f.svc.GetEmployeeYearly(ctx, "ghost", attendance.YearQuery{Year: 2024})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceService_Reconcile(t *testing.T) {
	f := newFixture(t, midMarch)
	ctx := context.Background()

	got, err := f.svc.Reconcile(ctx, attendance.PeriodQuery{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Copied)

	_, err = f.svc.Reconcile(ctx, attendance.PeriodQuery{Year: 2024, Month: 4})
	assert.ErrorIs(t, err, attendance.ErrFutureDate)
}
