package attendance

import (
	"time"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
)

// recordStatus maps a stored status tag to a day status. A missing tag is a
// mark; unknown tags count as absent.
func recordStatus(rec attendance.Record) attendance.DayStatus {
	switch attendance.ParseStatus(string(rec.Status)) {
	case attendance.StatusPresent:
		return attendance.DayPresent
	case attendance.StatusOnLeave:
		return attendance.DayOnLeave
	default:
		return attendance.DayAbsent
	}
}

// classifyDay applies the calendar precedence: future, weekend, record, absent.
func classifyDay(date, today attendance.Date, rec *attendance.Record) attendance.DayStatus {
	switch {
	case date.After(today):
		return attendance.DayFuture
	case date.IsWeekend():
		return attendance.DayWeekend
	case rec != nil:
		return recordStatus(*rec)
	default:
		return attendance.DayAbsent
	}
}

// classifyDayView is the dashboard rule: a stored record always shows,
// even on a weekend or a pre-marked future leave.
func classifyDayView(date, today attendance.Date, rec *attendance.Record) attendance.DayStatus {
	switch {
	case rec != nil:
		return recordStatus(*rec)
	case date.After(today):
		return attendance.DayFuture
	case date.IsWeekend():
		return attendance.DayWeekend
	default:
		return attendance.DayAbsent
	}
}

func summarizeMonth(userID, name string, year int, month time.Month, records map[int]attendance.Record, today attendance.Date) attendance.MonthSummary {
	days := attendance.DaysIn(year, month)
	summary := attendance.MonthSummary{
		UserID:   userID,
		UserName: name,
		Year:     year,
		Month:    int(month),
		Days:     make([]attendance.DayEntry, 0, days),
	}

	for day := 1; day <= days; day++ {
		date := attendance.Date{Year: year, Month: month, Day: day}
		var rec *attendance.Record
		if r, ok := records[day]; ok {
			rec = &r
		}

		status := classifyDay(date, today, rec)
		entry := attendance.DayEntry{
			Date:    date.String(),
			Day:     day,
			Weekday: date.Weekday().String(),
			Status:  status,
		}
		if rec != nil && (status == attendance.DayPresent || status == attendance.DayOnLeave) {
			markedAt := rec.Timestamp
			entry.MarkedAt = &markedAt
		}
		summary.Days = append(summary.Days, entry)
		summary.Counts.Add(status)
	}

	summary.Percentage = summary.Counts.Percentage()
	return summary
}

func summarizeYear(userID, name string, year int, months []attendance.MonthSummary) attendance.YearSummary {
	summary := attendance.YearSummary{
		UserID:   userID,
		UserName: name,
		Year:     year,
		Months:   months,
	}
	for _, m := range months {
		summary.Totals.Merge(m.Counts)
	}
	summary.Percentage = summary.Totals.Percentage()
	return summary
}
