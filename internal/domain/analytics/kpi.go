package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AttendanceSummary aggregates attendance rows into dashboard KPIs.
// Percentages are kept as decimals so repeated aggregation does not
// accumulate float drift.
type AttendanceSummary struct {
	Headcount      int             `json:"headcount"`
	PresentDays    int             `json:"present_days"`
	OnTimeDays     int             `json:"on_time_days"`
	LeaveDays      int             `json:"leave_days"`
	OnTimePct      decimal.Decimal `json:"on_time_pct"`
	TotalWorkHours decimal.Decimal `json:"total_work_hours"`
	AvgWorkHours   decimal.Decimal `json:"avg_work_hours"`
}

// SummarizeAttendance computes the attendance KPIs over the rows the
// caller already filtered to the viewer's scope.
func SummarizeAttendance(rows []AttendanceRow) AttendanceSummary {
	var s AttendanceSummary
	emails := make(map[string]struct{})
	total := decimal.Zero

	for _, row := range rows {
		if row.Email != "" {
			emails[row.Email] = struct{}{}
		}
		if row.OnLeave() {
			s.LeaveDays++
			continue
		}
		if row.Present {
			s.PresentDays++
			total = total.Add(row.WorkHours)
			if row.OnTime {
				s.OnTimeDays++
			}
		}
	}

	s.Headcount = len(emails)
	s.TotalWorkHours = total
	if s.PresentDays > 0 {
		s.OnTimePct = decimal.NewFromInt(int64(s.OnTimeDays)).
			Div(decimal.NewFromInt(int64(s.PresentDays))).
			Mul(hundred).Round(2)
		s.AvgWorkHours = total.Div(decimal.NewFromInt(int64(s.PresentDays))).Round(2)
	} else {
		s.OnTimePct = decimal.Zero
		s.AvgWorkHours = decimal.Zero
	}
	return s
}

// DepartmentSummary is the per-department slice of the attendance KPIs.
type DepartmentSummary struct {
	Department string `json:"department"`
	AttendanceSummary
}

// SummarizeByDepartment groups the rows by department and summarizes
// each group, sorted by department name. Rows with a blank department
// are grouped under an empty key rather than dropped.
func SummarizeByDepartment(rows []AttendanceRow) []DepartmentSummary {
	groups := make(map[string][]AttendanceRow)
	for _, row := range rows {
		groups[row.Department] = append(groups[row.Department], row)
	}

	out := make([]DepartmentSummary, 0, len(groups))
	for dept, group := range groups {
		out = append(out, DepartmentSummary{
			Department:        dept,
			AttendanceSummary: SummarizeAttendance(group),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// ActivitySummary aggregates collaboration activity rows.
type ActivitySummary struct {
	ActiveUsers      int             `json:"active_users"`
	TotalMessages    int64           `json:"total_messages"`
	TotalCalls       int64           `json:"total_calls"`
	TotalMeetings    int64           `json:"total_meetings"`
	TotalActiveHours decimal.Decimal `json:"total_active_hours"`
	AvgActiveHours   decimal.Decimal `json:"avg_active_hours"`
}

// SummarizeActivity computes the collaboration KPIs. A user counts as
// active on any day with at least one message, call, or meeting.
func SummarizeActivity(rows []ActivityRow) ActivitySummary {
	var s ActivitySummary
	active := make(map[string]struct{})
	total := decimal.Zero

	for _, row := range rows {
		s.TotalMessages += row.Messages
		s.TotalCalls += row.Calls
		s.TotalMeetings += row.Meetings
		total = total.Add(row.ActiveHours)
		if row.Email != "" && (row.Messages > 0 || row.Calls > 0 || row.Meetings > 0) {
			active[row.Email] = struct{}{}
		}
	}

	s.ActiveUsers = len(active)
	s.TotalActiveHours = total
	if s.ActiveUsers > 0 {
		s.AvgActiveHours = total.Div(decimal.NewFromInt(int64(s.ActiveUsers))).Round(2)
	} else {
		s.AvgActiveHours = decimal.Zero
	}
	return s
}
