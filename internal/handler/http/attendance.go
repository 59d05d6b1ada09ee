package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/handler/http/response"
)

type AttendanceHandler interface {
	// Employee
	Geofence(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	Yearly(w http.ResponseWriter, r *http.Request)

	// Admin
	DailyView(w http.ResponseWriter, r *http.Request)
	MarkLeave(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	EmployeeMonthly(w http.ResponseWriter, r *http.Request)
	EmployeeYearly(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
		now:               time.Now,
	}
}

// periodQuery reads ?year=&month=. Missing values default to the current month at the worksite.
func (h *attendanceHandlerImpl) periodQuery(r *http.Request) (attendance.PeriodQuery, error) {
	current := h.now().In(h.loc)
	q := attendance.PeriodQuery{Year: current.Year(), Month: int(current.Month())}

	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return q, attendance.ErrInvalidYear
		}
		q.Year = year
	}
	if m := r.URL.Query().Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			return q, attendance.ErrInvalidMonth
		}
		q.Month = month
	}
	return q, nil
}

func (h *attendanceHandlerImpl) yearQuery(r *http.Request) (attendance.YearQuery, error) {
	q := attendance.YearQuery{Year: h.now().In(h.loc).Year()}
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return q, attendance.ErrInvalidYear
		}
		q.Year = year
	}
	return q, nil
}

// Geofence implements AttendanceHandler.
func (h *attendanceHandlerImpl) Geofence(w http.ResponseWriter, r *http.Request) {
	var req attendance.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Geofence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.EvaluateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Mark attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.MarkPresent(r.Context(), req)
	if err != nil {
		slog.Error("Mark attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked successfully", record)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, today)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	q, err := h.periodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.GetMyMonthly(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Yearly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Yearly(w http.ResponseWriter, r *http.Request) {
	q, err := h.yearQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.GetMyYearly(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// DailyView implements AttendanceHandler.
func (h *attendanceHandlerImpl) DailyView(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = attendance.DateOf(h.now().In(h.loc)).String()
	}

	view, err := h.attendanceService.GetDailyView(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// MarkLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkLeave(w http.ResponseWriter, r *http.Request) {
	var req attendance.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Mark leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.MarkLeave(r.Context(), req)
	if err != nil {
		slog.Error("Mark leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave recorded successfully", record)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	q, err := h.periodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.attendanceService.GetMonthlyStats(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// EmployeeMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeMonthly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q, err := h.periodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.GetEmployeeMonthly(r.Context(), id, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// EmployeeYearly implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeYearly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q, err := h.yearQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.GetEmployeeYearly(r.Context(), id, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Reconcile implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var q attendance.PeriodQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		slog.Error("Reconcile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Reconcile(r.Context(), q)
	if err != nil {
		slog.Error("Reconcile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance copies reconciled", result)
}
