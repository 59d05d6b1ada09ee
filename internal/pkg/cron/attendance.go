package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
)

const ReconcileJobName = "reconcile_attendance_copies"

// Reconciler is the part of the attendance service the jobs need.
type Reconciler interface {
	Reconcile(ctx context.Context, q attendance.PeriodQuery) (attendance.ReconcileResponse, error)
}

type AttendanceJobs struct {
	reconciler Reconciler
	loc        *time.Location
	now        func() time.Time
}

func NewAttendanceJobs(reconciler Reconciler, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		reconciler: reconciler,
		loc:        loc,
		now:        time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(ReconcileJobName, interval, j.ReconcileRecentMonths)
}

// ReconcileRecentMonths repairs missing per-user copies in the previous and current month.
func (j *AttendanceJobs) ReconcileRecentMonths(ctx context.Context) error {
	current := j.now().In(j.loc)
	firstOfMonth := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, j.loc)
	previous := firstOfMonth.AddDate(0, -1, 0)

	total := 0
	for _, month := range []time.Time{previous, firstOfMonth} {
		result, err := j.reconciler.Reconcile(ctx, attendance.PeriodQuery{Year: month.Year(), Month: int(month.Month())})
		if err != nil {
			return fmt.Errorf("failed to reconcile %d-%02d: %w", month.Year(), int(month.Month()), err)
		}
		total += result.Copied
	}

	if total > 0 {
		slog.Info("cron: reconciled attendance copies", "copied", total)
	}
	return nil
}
