package handler

import (
	"time"

	"github.com/google/uuid"

	analyticsapp "github.com/workforce/backend/internal/application/analytics"
	"github.com/workforce/backend/internal/domain/analytics"
)

// BatchResponse represents one accepted analytics upload
type BatchResponse struct {
	ID         uuid.UUID `json:"id"`
	Module     string    `json:"module"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AttendanceOverviewResponse is the scoped attendance dashboard
// payload
type AttendanceOverviewResponse struct {
	Summary     analytics.AttendanceSummary   `json:"summary"`
	Departments []analytics.DepartmentSummary `json:"departments"`
	Rows        int                           `json:"rows"`
}

// ActivityOverviewResponse is the scoped collaboration dashboard
// payload
type ActivityOverviewResponse struct {
	Summary analytics.ActivitySummary `json:"summary"`
	Rows    int                       `json:"rows"`
}

func batchResponseFrom(info analyticsapp.BatchInfo) BatchResponse {
	return BatchResponse{
		ID:         info.ID,
		Module:     info.Module,
		FileName:   info.FileName,
		UploadedBy: info.UploadedBy,
		Rows:       info.Rows,
		Skipped:    info.Skipped,
		UploadedAt: info.UploadedAt,
	}
}

func batchResponsesFrom(infos []analyticsapp.BatchInfo) []BatchResponse {
	responses := make([]BatchResponse, len(infos))
	for i, info := range infos {
		responses[i] = batchResponseFrom(info)
	}
	return responses
}
