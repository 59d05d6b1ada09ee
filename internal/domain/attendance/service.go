package attendance

import (
	"context"
)

type AttendanceService interface {
	// Employee operations
	EvaluateLocation(ctx context.Context, req LocationRequest) (GeofenceResponse, error)
	MarkPresent(ctx context.Context, req LocationRequest) (RecordResponse, error)
	GetToday(ctx context.Context) (TodayResponse, error)
	GetMyMonthly(ctx context.Context, q PeriodQuery) (MonthSummary, error)
	GetMyYearly(ctx context.Context, q YearQuery) (YearSummary, error)

	// Admin operations
	GetDailyView(ctx context.Context, date string) (DayView, error)
	MarkLeave(ctx context.Context, req LeaveRequest) (RecordResponse, error)
	GetMonthlyStats(ctx context.Context, q PeriodQuery) (MonthlyStats, error)
	GetEmployeeMonthly(ctx context.Context, userID string, q PeriodQuery) (MonthSummary, error)
	GetEmployeeYearly(ctx context.Context, userID string, q YearQuery) (YearSummary, error)
	Reconcile(ctx context.Context, q PeriodQuery) (ReconcileResponse, error)
}
