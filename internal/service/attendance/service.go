package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/geo"
	"github.com/petropump/attendance-backend/internal/pkg/sse"
	"golang.org/x/sync/errgroup"
)

const (
	EventAttendanceMarked = "attendance.marked"
	EventAttendanceLeave  = "attendance.leave"

	// maxConcurrentDayReads bounds the ledger reads of one monthly stats request.
	maxConcurrentDayReads = 8
)

// AccountResolver resolves a user id to a profile with its effective role.
type AccountResolver interface {
	GetAccount(ctx context.Context, id string) (user.User, error)
}

// EventPublisher is satisfied by *sse.Hub.
type EventPublisher interface {
	Publish(topic string, event string, data interface{}) int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	accounts AccountResolver
	events   EventPublisher
	fence    geo.Fence
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	accounts AccountResolver,
	events EventPublisher,
	fence geo.Fence,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		accounts:             accounts,
		events:               events,
		fence:                fence,
		loc:                  loc,
		now:                  time.Now,
	}
}

func (a *AttendanceServiceImpl) today() attendance.Date {
	return attendance.DateOf(a.now().In(a.loc))
}

func currentUserID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid: %w", auth.ErrInvalidToken)
	}
	return userID, nil
}

func (a *AttendanceServiceImpl) evaluate(req attendance.LocationRequest) (geo.Evaluation, error) {
	if err := req.Validate(); err != nil {
		return geo.Evaluation{}, err
	}
	eval, err := a.fence.Evaluate(*req.Latitude, *req.Longitude)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinates) {
			return geo.Evaluation{}, attendance.ErrInvalidCoordinates
		}
		return geo.Evaluation{}, err
	}
	return eval, nil
}

func (a *AttendanceServiceImpl) publish(event string, data interface{}) {
	if a.events == nil {
		return
	}
	a.events.Publish(sse.TopicAdmins, event, data)
}

// EvaluateLocation implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EvaluateLocation(ctx context.Context, req attendance.LocationRequest) (attendance.GeofenceResponse, error) {
	eval, err := a.evaluate(req)
	if err != nil {
		return attendance.GeofenceResponse{}, err
	}
	return attendance.GeofenceResponse{
		Within:         eval.Within,
		DistanceMeters: eval.DistanceMeters,
		RadiusMeters:   a.fence.RadiusMeters,
		Proximity:      string(eval.Proximity),
	}, nil
}

// MarkPresent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkPresent(ctx context.Context, req attendance.LocationRequest) (attendance.RecordResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	eval, err := a.evaluate(req)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !eval.Within {
		return attendance.RecordResponse{}, attendance.ErrOutsideGeofence
	}

	account, err := a.accounts.GetAccount(ctx, userID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get account: %w", err)
	}

	now := a.now().In(a.loc)
	date := attendance.DateOf(now)
	lat, lng := *req.Latitude, *req.Longitude
	rec := attendance.Record{
		UserID:    userID,
		UserName:  account.Name,
		Timestamp: now,
		Latitude:  &lat,
		Longitude: &lng,
		Status:    attendance.StatusPresent,
	}

	if err := a.AttendanceRepository.Create(ctx, date, rec); err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	slog.Info("attendance marked", "user_id", userID, "date", date.String(), "distance_meters", eval.DistanceMeters)
	response := attendance.NewRecordResponse(date, rec)
	a.publish(EventAttendanceMarked, response)
	return response, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	today := a.today()
	rec, err := a.AttendanceRepository.Get(ctx, userID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	response := attendance.TodayResponse{
		Date:   today.String(),
		Marked: rec != nil,
		Status: classifyDayView(today, today, rec),
	}
	if rec != nil {
		recordResponse := attendance.NewRecordResponse(today, *rec)
		response.Record = &recordResponse
	}
	return response, nil
}

func (a *AttendanceServiceImpl) monthSummary(ctx context.Context, account user.User, year int, month time.Month) (attendance.MonthSummary, error) {
	records, err := a.AttendanceRepository.ListUserMonth(ctx, account.ID, year, month)
	if err != nil {
		return attendance.MonthSummary{}, fmt.Errorf("failed to read attendance for %d-%02d: %w", year, int(month), err)
	}
	return summarizeMonth(account.ID, account.Name, year, month, records, a.today()), nil
}

// yearSummary reads the twelve months concurrently. The first failure cancels the rest.
func (a *AttendanceServiceImpl) yearSummary(ctx context.Context, account user.User, year int) (attendance.YearSummary, error) {
	months := make([]attendance.MonthSummary, 12)
	g, gctx := errgroup.WithContext(ctx)
	for i := range months {
		i := i
		g.Go(func() error {
			summary, err := a.monthSummary(gctx, account, year, time.Month(i+1))
			if err != nil {
				return err
			}
			months[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.YearSummary{}, err
	}
	return summarizeYear(account.ID, account.Name, year, months), nil
}

// GetMyMonthly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyMonthly(ctx context.Context, q attendance.PeriodQuery) (attendance.MonthSummary, error) {
	if err := q.Validate(); err != nil {
		return attendance.MonthSummary{}, err
	}
	userID, err := currentUserID(ctx)
	if err != nil {
		return attendance.MonthSummary{}, err
	}
	account, err := a.accounts.GetAccount(ctx, userID)
	if err != nil {
		return attendance.MonthSummary{}, fmt.Errorf("failed to get account: %w", err)
	}
	return a.monthSummary(ctx, account, q.Year, time.Month(q.Month))
}

// GetMyYearly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyYearly(ctx context.Context, q attendance.YearQuery) (attendance.YearSummary, error) {
	if err := q.Validate(); err != nil {
		return attendance.YearSummary{}, err
	}
	userID, err := currentUserID(ctx)
	if err != nil {
		return attendance.YearSummary{}, err
	}
	account, err := a.accounts.GetAccount(ctx, userID)
	if err != nil {
		return attendance.YearSummary{}, fmt.Errorf("failed to get account: %w", err)
	}
	return a.yearSummary(ctx, account, q.Year)
}

// GetDailyView implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyView(ctx context.Context, dateStr string) (attendance.DayView, error) {
	date, err := attendance.ParseDate(dateStr)
	if err != nil {
		return attendance.DayView{}, attendance.ErrInvalidDate
	}

	employees, err := a.UserRepository.ListEmployees(ctx)
	if err != nil {
		return attendance.DayView{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := a.AttendanceRepository.ListDay(ctx, date)
	if err != nil {
		return attendance.DayView{}, fmt.Errorf("failed to list attendance on %s: %w", date, err)
	}
	byUser := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		byUser[rec.UserID] = rec
	}

	today := a.today()
	view := attendance.DayView{
		Date:      date.String(),
		Employees: make([]attendance.DayViewEntry, 0, len(employees)),
		Total:     len(employees),
	}
	for _, emp := range employees {
		var rec *attendance.Record
		if r, ok := byUser[emp.ID]; ok {
			rec = &r
		}
		entry := attendance.DayViewEntry{
			UserID: emp.ID,
			Name:   emp.Name,
			Email:  emp.Email,
			Status: classifyDayView(date, today, rec),
		}
		if rec != nil {
			markedAt := rec.Timestamp
			entry.MarkedAt = &markedAt
		}

		switch entry.Status {
		case attendance.DayPresent:
			view.Present++
		case attendance.DayOnLeave:
			view.OnLeave++
		case attendance.DayAbsent:
			view.Absent++
		}
		view.Employees = append(view.Employees, entry)
	}
	return view, nil
}

// MarkLeave implements attendance.AttendanceService. It overwrites any record of that day.
func (a *AttendanceServiceImpl) MarkLeave(ctx context.Context, req attendance.LeaveRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		return attendance.RecordResponse{}, attendance.ErrInvalidDate
	}

	employee, err := a.accounts.GetAccount(ctx, req.UserID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec := attendance.Record{
		UserID:    employee.ID,
		UserName:  employee.Name,
		Timestamp: a.now().In(a.loc),
		Status:    attendance.StatusOnLeave,
	}
	if err := a.AttendanceRepository.Put(ctx, date, rec); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to mark leave: %w", err)
	}

	slog.Info("leave marked", "user_id", employee.ID, "date", date.String())
	response := attendance.NewRecordResponse(date, rec)
	a.publish(EventAttendanceLeave, response)
	return response, nil
}

// GetMonthlyStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlyStats(ctx context.Context, q attendance.PeriodQuery) (attendance.MonthlyStats, error) {
	if err := q.Validate(); err != nil {
		return attendance.MonthlyStats{}, err
	}
	year, month := q.Year, time.Month(q.Month)

	employees, err := a.UserRepository.ListEmployees(ctx)
	if err != nil {
		return attendance.MonthlyStats{}, fmt.Errorf("failed to list employees: %w", err)
	}

	today := a.today()
	days := attendance.DaysIn(year, month)

	// Only past-or-current weekdays can hold a status that depends on the ledger
	ledger := make([]map[string]attendance.Record, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDayReads)
	for i := range ledger {
		i := i
		date := attendance.Date{Year: year, Month: month, Day: i + 1}
		if date.After(today) || date.IsWeekend() {
			continue
		}
		g.Go(func() error {
			records, err := a.AttendanceRepository.ListDay(gctx, date)
			if err != nil {
				return fmt.Errorf("failed to list attendance on %s: %w", date, err)
			}
			byUser := make(map[string]attendance.Record, len(records))
			for _, rec := range records {
				byUser[rec.UserID] = rec
			}
			ledger[i] = byUser
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.MonthlyStats{}, err
	}

	stats := attendance.MonthlyStats{
		Year:        year,
		Month:       int(month),
		DaysInMonth: days,
		Employees:   make([]attendance.EmployeeMonthStats, 0, len(employees)),
	}
	for _, emp := range employees {
		row := attendance.EmployeeMonthStats{
			UserID: emp.ID,
			Name:   emp.Name,
			Email:  emp.Email,
			Days:   make([]attendance.DayStatus, days),
		}
		for i := 0; i < days; i++ {
			var rec *attendance.Record
			if r, ok := ledger[i][emp.ID]; ok {
				rec = &r
			}
			status := classifyDay(attendance.Date{Year: year, Month: month, Day: i + 1}, today, rec)
			row.Days[i] = status
			row.Counts.Add(status)
		}
		row.Percentage = row.Counts.Percentage()
		stats.Totals.Merge(row.Counts)
		stats.Employees = append(stats.Employees, row)
	}
	stats.Percentage = stats.Totals.Percentage()
	return stats, nil
}

// GetEmployeeMonthly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEmployeeMonthly(ctx context.Context, userID string, q attendance.PeriodQuery) (attendance.MonthSummary, error) {
	if err := q.Validate(); err != nil {
		return attendance.MonthSummary{}, err
	}
	employee, err := a.accounts.GetAccount(ctx, userID)
	if err != nil {
		return attendance.MonthSummary{}, err
	}
	return a.monthSummary(ctx, employee, q.Year, time.Month(q.Month))
}

// GetEmployeeYearly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEmployeeYearly(ctx context.Context, userID string, q attendance.YearQuery) (attendance.YearSummary, error) {
	if err := q.Validate(); err != nil {
		return attendance.YearSummary{}, err
	}
	employee, err := a.accounts.GetAccount(ctx, userID)
	if err != nil {
		return attendance.YearSummary{}, err
	}
	return a.yearSummary(ctx, employee, q.Year)
}

// Reconcile implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reconcile(ctx context.Context, q attendance.PeriodQuery) (attendance.ReconcileResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.ReconcileResponse{}, err
	}
	month := time.Month(q.Month)
	if (attendance.Date{Year: q.Year, Month: month, Day: 1}).After(a.today()) {
		return attendance.ReconcileResponse{}, attendance.ErrFutureDate
	}

	copied, err := a.AttendanceRepository.Reconcile(ctx, q.Year, month)
	if err != nil {
		return attendance.ReconcileResponse{}, fmt.Errorf("failed to reconcile attendance for %d-%02d: %w", q.Year, q.Month, err)
	}
	if copied > 0 {
		slog.Info("attendance copies reconciled", "year", q.Year, "month", q.Month, "copied", copied)
	}
	return attendance.ReconcileResponse{Year: q.Year, Month: q.Month, Copied: copied}, nil
}
