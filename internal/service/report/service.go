package report

import (
	"context"
	"fmt"
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/report"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type ReportServiceImpl struct {
	attendance attendance.AttendanceService
	loc        *time.Location
	fontPath   string
	now        func() time.Time
}

// NewReportService renders reports from attendance aggregates. fontPath names a
// TrueType font for PDF text; when empty the core font is used and names are
// limited to cp1252.
func NewReportService(attendanceService attendance.AttendanceService, loc *time.Location, fontPath string) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		attendance: attendanceService,
		loc:        loc,
		fontPath:   fontPath,
		now:        time.Now,
	}
}

// MonthlyWorkbook implements report.ReportService.
func (s *ReportServiceImpl) MonthlyWorkbook(ctx context.Context, q attendance.PeriodQuery) (report.File, error) {
	stats, err := s.attendance.GetMonthlyStats(ctx, q)
	if err != nil {
		return report.File{}, err
	}

	content, err := renderWorkbook(stats)
	if err != nil {
		return report.File{}, fmt.Errorf("%w: %v", report.ErrRenderFailed, err)
	}

	return report.File{
		Name:        fmt.Sprintf("attendance-%04d-%02d.xlsx", q.Year, q.Month),
		ContentType: contentTypeXLSX,
		Content:     content,
	}, nil
}

// EmployeeMonthlyPDF implements report.ReportService.
func (s *ReportServiceImpl) EmployeeMonthlyPDF(ctx context.Context, userID string, q attendance.PeriodQuery) (report.File, error) {
	summary, err := s.attendance.GetEmployeeMonthly(ctx, userID, q)
	if err != nil {
		return report.File{}, err
	}

	content, err := renderEmployeePDF(summary, s.loc, s.now().In(s.loc), s.fontPath)
	if err != nil {
		return report.File{}, fmt.Errorf("%w: %v", report.ErrRenderFailed, err)
	}

	return report.File{
		Name:        fmt.Sprintf("attendance-%s-%04d-%02d.pdf", userID, q.Year, q.Month),
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

// statusCode is the one-letter code used in the day matrix.
func statusCode(status attendance.DayStatus) string {
	switch status {
	case attendance.DayPresent:
		return "P"
	case attendance.DayAbsent:
		return "A"
	case attendance.DayOnLeave:
		return "L"
	case attendance.DayWeekend:
		return "W"
	case attendance.DayFuture:
		return "-"
	default:
		return "?"
	}
}

func statusLabel(status attendance.DayStatus) string {
	switch status {
	case attendance.DayPresent:
		return "Present"
	case attendance.DayAbsent:
		return "Absent"
	case attendance.DayOnLeave:
		return "On leave"
	case attendance.DayWeekend:
		return "Weekend"
	case attendance.DayFuture:
		return "Upcoming"
	default:
		return string(status)
	}
}
