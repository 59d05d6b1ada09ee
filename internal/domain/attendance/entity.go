package attendance

import (
	"fmt"
	"strconv"
	"time"
)

// Status is the tag stored on an attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusOnLeave Status = "on_leave"
)

// ParseStatus reads a stored status tag. Records written before the tag
// existed carry no status and are attendance marks. Unknown tags pass
// through unchanged and aggregate as absent.
func ParseStatus(s string) Status {
	if s == "" {
		return StatusPresent
	}
	return Status(s)
}

// DayStatus is the derived classification of a calendar day for one employee.
type DayStatus string

const (
	DayPresent DayStatus = "present"
	DayAbsent  DayStatus = "absent"
	DayOnLeave DayStatus = "on_leave"
	DayWeekend DayStatus = "weekend"
	DayFuture  DayStatus = "future"
)

// Record is the payload written to both the daily ledger and the per-user copy.
type Record struct {
	UserID    string
	UserName  string
	Timestamp time.Time
	Latitude  *float64
	Longitude *float64
	Status    Status
}

// Date is a calendar day in the worksite time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Key is the per-user document id, "{year}-{month}-{day}" without zero padding.
func (d Date) Key() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, int(d.Month), d.Day)
}

// Segments returns the year, month and day path segments of the daily ledger.
func (d Date) Segments() (year, month, day string) {
	return strconv.Itoa(d.Year), strconv.Itoa(int(d.Month)), strconv.Itoa(d.Day)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) After(o Date) bool {
	if d.Year != o.Year {
		return d.Year > o.Year
	}
	if d.Month != o.Month {
		return d.Month > o.Month
	}
	return d.Day > o.Day
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
