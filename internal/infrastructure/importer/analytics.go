package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/workforce/backend/internal/domain/analytics"
)

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01-02-06",
	"2/1/2006",
	"1/2/2006",
	"02 Jan 2006",
	time.RFC3339,
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseDecimal(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseCount(value string) int64 {
	return parseDecimal(value).IntPart()
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "present", "on time", "on-time":
		return true
	}
	return false
}

// AttendanceResult carries parsed attendance rows plus per-row problems.
type AttendanceResult struct {
	Rows   []analytics.AttendanceRow
	Errors []RowError
}

// ParseAttendance reads an attendance export. Rows with an unparsable
// date are reported and skipped rather than failing the batch.
func ParseAttendance(r io.Reader) (*AttendanceResult, error) {
	sheet, err := OpenSheet(r)
	if err != nil {
		return nil, err
	}

	result := &AttendanceResult{}
	for i := 0; i < sheet.RowCount(); i++ {
		date, err := parseDate(sheet.Cell(i, "Date", "Attendance Date", "Day"))
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row: sheet.SheetRow(i), Column: "Date", Message: err.Error(),
			})
			continue
		}
		result.Rows = append(result.Rows, analytics.AttendanceRow{
			Email:      sheet.Cell(i, emailAliases...),
			Name:       sheet.Cell(i, nameAliases...),
			Company:    sheet.Cell(i, companyAliases...),
			Function:   sheet.Cell(i, "Function"),
			Department: sheet.Cell(i, "Department"),
			Date:       date,
			Present:    parseFlag(sheet.Cell(i, "Present", "Attendance", "Status")),
			OnTime:     parseFlag(sheet.Cell(i, "On Time", "OnTime", "Punctual")),
			WorkHours:  parseDecimal(sheet.Cell(i, "Work Hours", "Working Hours", "Hours")),
			LeaveType:  sheet.Cell(i, "Leave Type", "Leave"),
		})
	}
	return result, nil
}

// ActivityResult carries parsed collaboration activity rows plus
// per-row problems.
type ActivityResult struct {
	Rows   []analytics.ActivityRow
	Errors []RowError
}

// ParseActivity reads a collaboration-tool activity export.
func ParseActivity(r io.Reader) (*ActivityResult, error) {
	sheet, err := OpenSheet(r)
	if err != nil {
		return nil, err
	}

	result := &ActivityResult{}
	for i := 0; i < sheet.RowCount(); i++ {
		date, err := parseDate(sheet.Cell(i, "Date", "Activity Date", "Report Date"))
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row: sheet.SheetRow(i), Column: "Date", Message: err.Error(),
			})
			continue
		}
		result.Rows = append(result.Rows, analytics.ActivityRow{
			Email:       sheet.Cell(i, emailAliases...),
			Name:        sheet.Cell(i, nameAliases...),
			Company:     sheet.Cell(i, companyAliases...),
			Function:    sheet.Cell(i, "Function"),
			Department:  sheet.Cell(i, "Department"),
			Date:        date,
			Messages:    parseCount(sheet.Cell(i, "Messages", "Team Chat Messages", "Chat Messages")),
			Calls:       parseCount(sheet.Cell(i, "Calls", "Call Count")),
			Meetings:    parseCount(sheet.Cell(i, "Meetings", "Meeting Count", "Meetings Attended")),
			ActiveHours: parseDecimal(sheet.Cell(i, "Active Hours", "Activity Hours")),
		})
	}
	return result, nil
}
