package report

import (
	"context"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
)

// File is a rendered report ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

type ReportService interface {
	MonthlyWorkbook(ctx context.Context, q attendance.PeriodQuery) (File, error)
	EmployeeMonthlyPDF(ctx context.Context, userID string, q attendance.PeriodQuery) (File, error)
}
