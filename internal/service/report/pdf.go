package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
)

// utf8Family is the family name an embedded TrueType font is registered under.
const utf8Family = "ReportUTF8"

// newPDF returns a document and the font family plus text encoder to use with it.
// Without a TrueType font the core Arial font is used, which only covers cp1252,
// so text is translated and anything outside that code page becomes a dot.
func newPDF(fontPath string) (*gofpdf.Fpdf, string, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if fontPath == "" {
		return pdf, "Arial", pdf.UnicodeTranslatorFromDescriptor("")
	}
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8Font(utf8Family, style, fontPath)
	}
	return pdf, utf8Family, func(s string) string { return s }
}

func renderEmployeePDF(summary attendance.MonthSummary, loc *time.Location, generatedAt time.Time, fontPath string) ([]byte, error) {
	pdf, family, text := newPDF(fontPath)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load font %s: %w", fontPath, err)
	}
	pdf.AddPage()

	// Header
	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(12)

	pdf.SetFont(family, "", 12)
	pdf.Cell(0, 8, text(fmt.Sprintf("Name: %s", summary.UserName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s %d", time.Month(summary.Month), summary.Year))
	pdf.Ln(12)

	// Day table
	pdf.SetFont(family, "B", 11)
	pdf.SetFillColor(221, 235, 247)
	pdf.CellFormat(35, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Day", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Status", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Marked at", "1", 1, "L", true, 0, "")

	pdf.SetFont(family, "", 10)
	for _, day := range summary.Days {
		markedAt := ""
		if day.MarkedAt != nil {
			markedAt = day.MarkedAt.In(loc).Format("15:04")
		}
		pdf.CellFormat(35, 6, day.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, day.Weekday, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, statusLabel(day.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, markedAt, "1", 1, "L", false, 0, "")
	}

	// Summary footer
	pdf.Ln(6)
	pdf.SetFont(family, "B", 11)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(7)
	pdf.SetFont(family, "", 11)
	metrics := []struct {
		label string
		value string
	}{
		{"Present", fmt.Sprint(summary.Counts.Present)},
		{"Absent", fmt.Sprint(summary.Counts.Absent)},
		{"On leave", fmt.Sprint(summary.Counts.OnLeave)},
		{"Weekend", fmt.Sprint(summary.Counts.Weekend)},
		{"Upcoming", fmt.Sprint(summary.Counts.Future)},
		{"Attendance", fmt.Sprintf("%d%%", summary.Percentage)},
	}
	for _, m := range metrics {
		pdf.Cell(45, 6, m.label)
		pdf.Cell(45, 6, m.value)
		pdf.Ln(6)
	}

	pdf.Ln(8)
	pdf.SetFont(family, "I", 9)
	pdf.Cell(0, 8, fmt.Sprintf("Generated on %s", generatedAt.Format("02 January 2006 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
