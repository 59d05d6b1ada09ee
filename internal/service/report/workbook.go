package report

import (
	"fmt"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
)

var summaryHeaders = []interface{}{"Name", "Email", "Present", "Absent", "On Leave", "Weekend", "Upcoming", "Attendance %"}

func renderWorkbook(stats attendance.MonthlyStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, stats, headerStyle); err != nil {
		return nil, err
	}
	if err := writeDailySheet(f, stats, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, stats attendance.MonthlyStats, headerStyle int) error {
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(summaryHeaders), 1)
	if err := f.SetCellStyle(summarySheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, emp := range stats.Employees {
		values := []interface{}{
			emp.Name, emp.Email,
			emp.Counts.Present, emp.Counts.Absent, emp.Counts.OnLeave, emp.Counts.Weekend, emp.Counts.Future,
			emp.Percentage,
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{
		"Total", "",
		stats.Totals.Present, stats.Totals.Absent, stats.Totals.OnLeave, stats.Totals.Weekend, stats.Totals.Future,
		stats.Percentage,
	}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "C", "H", 13)
}

func writeDailySheet(f *excelize.File, stats attendance.MonthlyStats, headerStyle int) error {
	headers := make([]interface{}, 0, stats.DaysInMonth+1)
	headers = append(headers, "Name")
	for day := 1; day <= stats.DaysInMonth; day++ {
		headers = append(headers, day)
	}
	if err := f.SetSheetRow(dailySheet, "A1", &headers); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(dailySheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, emp := range stats.Employees {
		values := make([]interface{}, 0, len(emp.Days)+1)
		values = append(values, emp.Name)
		for _, status := range emp.Days {
			values = append(values, statusCode(status))
		}
		if err := f.SetSheetRow(dailySheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(dailySheet, "A", "A", 28); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(stats.DaysInMonth + 1)
	return f.SetColWidth(dailySheet, "B", lastCol, 4)
}
