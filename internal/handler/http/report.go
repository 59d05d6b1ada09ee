package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/report"
	"github.com/petropump/attendance-backend/internal/handler/http/response"
)

type ReportHandler interface {
	MonthlyWorkbook(w http.ResponseWriter, r *http.Request)
	EmployeeMonthlyPDF(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// parsePeriod reads the required ?year=&month= pair of a report.
func parsePeriod(r *http.Request) (attendance.PeriodQuery, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return attendance.PeriodQuery{}, attendance.ErrInvalidYear
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return attendance.PeriodQuery{}, attendance.ErrInvalidMonth
	}
	return attendance.PeriodQuery{Year: year, Month: month}, nil
}

// MonthlyWorkbook handles GET /admin/reports/monthly.xlsx
func (h *reportHandlerImpl) MonthlyWorkbook(w http.ResponseWriter, r *http.Request) {
	q, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.MonthlyWorkbook(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Name, file.ContentType, file.Content)
}

// EmployeeMonthlyPDF handles GET /admin/reports/employees/{id}/monthly.pdf
func (h *reportHandlerImpl) EmployeeMonthlyPDF(w http.ResponseWriter, r *http.Request) {
	q, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.EmployeeMonthlyPDF(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Name, file.ContentType, file.Content)
}
