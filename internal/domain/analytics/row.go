package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scoped is any row that carries organizational coordinates and can
// therefore be filtered by a user's data scope.
type Scoped interface {
	Coordinates() (company, function, department string)
}

// AttendanceRow is one employee-day of attendance data.
type AttendanceRow struct {
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Company    string          `json:"company"`
	Function   string          `json:"function"`
	Department string          `json:"department"`
	Date       time.Time       `json:"date"`
	Present    bool            `json:"present"`
	OnTime     bool            `json:"on_time"`
	WorkHours  decimal.Decimal `json:"work_hours"`
	LeaveType  string          `json:"leave_type"`
}

func (r AttendanceRow) Coordinates() (string, string, string) {
	return r.Company, r.Function, r.Department
}

// OnLeave reports whether the row records a leave day.
func (r AttendanceRow) OnLeave() bool {
	return r.LeaveType != ""
}

// ActivityRow is one employee-day of collaboration-tool activity.
type ActivityRow struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Company      string          `json:"company"`
	Function     string          `json:"function"`
	Department   string          `json:"department"`
	Date         time.Time       `json:"date"`
	Messages     int64           `json:"messages"`
	Calls        int64           `json:"calls"`
	Meetings     int64           `json:"meetings"`
	ActiveHours  decimal.Decimal `json:"active_hours"`
	LicensedApps int             `json:"licensed_apps"`
}

func (r ActivityRow) Coordinates() (string, string, string) {
	return r.Company, r.Function, r.Department
}
