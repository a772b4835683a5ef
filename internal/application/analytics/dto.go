package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/analytics"
)

// UploadInput contains the input for an analytics data upload
type UploadInput struct {
	FileName   string
	UploadedBy string
}

// BatchInfo is one accepted analytics upload.
type BatchInfo struct {
	ID         uuid.UUID
	Module     string
	FileName   string
	UploadedBy string
	Rows       int
	Skipped    int
	UploadedAt time.Time
}

// AttendanceOverview is the scoped attendance dashboard payload.
type AttendanceOverview struct {
	Summary     analytics.AttendanceSummary
	Departments []analytics.DepartmentSummary
	Rows        int
}

// ActivityOverview is the scoped collaboration dashboard payload.
type ActivityOverview struct {
	Summary analytics.ActivitySummary
	Rows    int
}
