package attendance

import (
	"time"

	"github.com/petropump/attendance-backend/internal/pkg/validator"
)

// ========================================
// MARKING DTOs
// ========================================

// LocationRequest carries the device fix. Nil coordinates mean the device had none.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (r *LocationRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return ErrLocationUnavailable
	}
	return validator.Struct(r)
}

type GeofenceResponse struct {
	Within         bool    `json:"within"`
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
	Proximity      string  `json:"proximity"`
}

type LeaveRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *LeaveRequest) Validate() error {
	return validator.Struct(r)
}

type RecordResponse struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Status    Status    `json:"status"`
}

func NewRecordResponse(date Date, rec Record) RecordResponse {
	return RecordResponse{
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		Date:      date.String(),
		Timestamp: rec.Timestamp,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Status:    rec.Status,
	}
}

type TodayResponse struct {
	Date   string          `json:"date"`
	Marked bool            `json:"marked"`
	Status DayStatus       `json:"status"`
	Record *RecordResponse `json:"record,omitempty"`
}

// ========================================
// AGGREGATION DTOs
// ========================================

type PeriodQuery struct {
	Year  int `json:"year" validate:"gte=2000,lte=2100"`
	Month int `json:"month" validate:"gte=1,lte=12"`
}

func (q *PeriodQuery) Validate() error {
	return validator.Struct(q)
}

type YearQuery struct {
	Year int `json:"year" validate:"gte=2000,lte=2100"`
}

func (q *YearQuery) Validate() error {
	return validator.Struct(q)
}

type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	OnLeave int `json:"on_leave"`
	Weekend int `json:"weekend"`
	Future  int `json:"future"`
}

func (c *Counts) Add(status DayStatus) {
	switch status {
	case DayPresent:
		c.Present++
	case DayAbsent:
		c.Absent++
	case DayOnLeave:
		c.OnLeave++
	case DayWeekend:
		c.Weekend++
	case DayFuture:
		c.Future++
	}
}

func (c *Counts) Merge(o Counts) {
	c.Present += o.Present
	c.Absent += o.Absent
	c.OnLeave += o.OnLeave
	c.Weekend += o.Weekend
	c.Future += o.Future
}

// Percentage is present over working days (present, absent, on leave), truncated.
// Zero working days gives 0.
func (c Counts) Percentage() int {
	working := c.Present + c.Absent + c.OnLeave
	if working == 0 {
		return 0
	}
	return c.Present * 100 / working
}

type DayEntry struct {
	Date     string     `json:"date"`
	Day      int        `json:"day"`
	Weekday  string     `json:"weekday"`
	Status   DayStatus  `json:"status"`
	MarkedAt *time.Time `json:"marked_at,omitempty"`
}

type MonthSummary struct {
	UserID     string     `json:"user_id"`
	UserName   string     `json:"user_name,omitempty"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	Days       []DayEntry `json:"days"`
	Counts     Counts     `json:"counts"`
	Percentage int        `json:"percentage"`
}

type YearSummary struct {
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name,omitempty"`
	Year       int            `json:"year"`
	Months     []MonthSummary `json:"months"`
	Totals     Counts         `json:"totals"`
	Percentage int            `json:"percentage"`
}

type DayViewEntry struct {
	UserID   string     `json:"user_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Status   DayStatus  `json:"status"`
	MarkedAt *time.Time `json:"marked_at,omitempty"`
}

type DayView struct {
	Date      string         `json:"date"`
	Employees []DayViewEntry `json:"employees"`
	Total     int            `json:"total"`
	Present   int            `json:"present"`
	OnLeave   int            `json:"on_leave"`
	Absent    int            `json:"absent"`
}

type EmployeeMonthStats struct {
	UserID     string      `json:"user_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Days       []DayStatus `json:"days"`
	Counts     Counts      `json:"counts"`
	Percentage int         `json:"percentage"`
}

type MonthlyStats struct {
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	DaysInMonth int                  `json:"days_in_month"`
	Employees   []EmployeeMonthStats `json:"employees"`
	Totals      Counts               `json:"totals"`
	Percentage  int                  `json:"percentage"`
}

type ReconcileResponse struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Copied int `json:"copied"`
}
