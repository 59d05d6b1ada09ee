package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReconciler struct {
	calls []attendance.PeriodQuery
	fail  error
}

func (r *recordingReconciler) Reconcile(ctx context.Context, q attendance.PeriodQuery) (attendance.ReconcileResponse, error) {
	r.calls = append(r.calls, q)
	if r.fail != nil {
		return attendance.ReconcileResponse{}, r.fail
	}
	return attendance.ReconcileResponse{Year: q.Year, Month: q.Month, Copied: 2}, nil
}

func TestReconcileRecentMonths_CrossesYear(t *testing.T) {
	rec := &recordingReconciler{}
	jobs := NewAttendanceJobs(rec, time.UTC)
	jobs.now = func() time.Time { return time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.ReconcileRecentMonths(context.Background()))

	assert.Equal(t, []attendance.PeriodQuery{{Year: 2024, Month: 12}, {Year: 2025, Month: 1}}, rec.calls)
}

func TestReconcileRecentMonths_UsesWorksiteZone(t *testing.T) {
	rec := &recordingReconciler{}
	ist := time.FixedZone("IST", 5*3600+1800)
	jobs := NewAttendanceJobs(rec, ist)
	// 1 April already at the pump
	jobs.now = func() time.Time { return time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.ReconcileRecentMonths(context.Background()))

	assert.Equal(t, []attendance.PeriodQuery{{Year: 2024, Month: 3}, {Year: 2024, Month: 4}}, rec.calls)
}

func TestReconcileRecentMonths_StopsOnError(t *testing.T) {
	boom := errors.New("store unavailable")
	rec := &recordingReconciler{fail: boom}
	jobs := NewAttendanceJobs(rec, time.UTC)

	err := jobs.ReconcileRecentMonths(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.calls, 1)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	ran := 0
	s.AddJob("ok", time.Hour, func(ctx context.Context) error { ran++; return nil })
	s.AddJob("broken", time.Hour, func(ctx context.Context) error { ran++; return boom })

	err := s.RunOnce(context.Background())

	assert.Equal(t, 2, ran)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "broken")
	assert.Equal(t, []string{"ok", "broken"}, s.Jobs())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run at start")
	}
	s.Stop()
}

func TestAttendanceJobs_Register(t *testing.T) {
	s := NewScheduler()
	NewAttendanceJobs(&recordingReconciler{}, time.UTC).RegisterJobs(s, 24*time.Hour)

	assert.Equal(t, []string{ReconcileJobName}, s.Jobs())
}
