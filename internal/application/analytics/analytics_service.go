package analytics

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/analytics"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/importer"
)

// Module names used in batch bookkeeping.
const (
	batchModuleAttendance = "attendance"
	batchModuleActivity   = "activity"
)

// AnalyticsService holds the uploaded analytics datasets in memory.
// Rows are transient dashboard data; each process keeps what it was
// fed and serves summaries filtered to the caller's scope.
type AnalyticsService struct {
	logger *zap.Logger

	mu         sync.RWMutex
	attendance []analytics.AttendanceRow
	activity   []analytics.ActivityRow
	batches    []BatchInfo
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{logger: logger}
}

// UploadAttendance parses and appends an attendance export.
func (s *AnalyticsService) UploadAttendance(ctx context.Context, input UploadInput, r io.Reader) (*BatchInfo, error) {
	parsed, err := importer.ParseAttendance(r)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_WORKBOOK", "Workbook cannot be read", err)
	}

	batch := s.recordBatch(batchModuleAttendance, input, len(parsed.Rows), len(parsed.Errors))

	s.mu.Lock()
	s.attendance = append(s.attendance, parsed.Rows...)
	s.mu.Unlock()

	s.logger.Info("Attendance batch accepted",
		zap.String("file", input.FileName),
		zap.Int("rows", len(parsed.Rows)),
		zap.Int("skipped", len(parsed.Errors)))
	return &batch, nil
}

// UploadActivity parses and appends a collaboration activity export.
func (s *AnalyticsService) UploadActivity(ctx context.Context, input UploadInput, r io.Reader) (*BatchInfo, error) {
	parsed, err := importer.ParseActivity(r)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_WORKBOOK", "Workbook cannot be read", err)
	}

	batch := s.recordBatch(batchModuleActivity, input, len(parsed.Rows), len(parsed.Errors))

	s.mu.Lock()
	s.activity = append(s.activity, parsed.Rows...)
	s.mu.Unlock()

	s.logger.Info("Activity batch accepted",
		zap.String("file", input.FileName),
		zap.Int("rows", len(parsed.Rows)),
		zap.Int("skipped", len(parsed.Errors)))
	return &batch, nil
}

func (s *AnalyticsService) recordBatch(module string, input UploadInput, rows, skipped int) BatchInfo {
	batch := BatchInfo{
		ID:         uuid.New(),
		Module:     module,
		FileName:   input.FileName,
		UploadedBy: input.UploadedBy,
		Rows:       rows,
		Skipped:    skipped,
		UploadedAt: time.Now(),
	}
	s.mu.Lock()
	s.batches = append(s.batches, batch)
	s.mu.Unlock()
	return batch
}

// AttendanceBatches returns accepted attendance uploads, oldest first.
func (s *AnalyticsService) AttendanceBatches(ctx context.Context) []BatchInfo {
	return s.batchesFor(batchModuleAttendance)
}

// ActivityBatches returns accepted activity uploads, oldest first.
func (s *AnalyticsService) ActivityBatches(ctx context.Context) []BatchInfo {
	return s.batchesFor(batchModuleActivity)
}

func (s *AnalyticsService) batchesFor(module string) []BatchInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BatchInfo, 0)
	for _, b := range s.batches {
		if b.Module == module {
			out = append(out, b)
		}
	}
	return out
}

// AttendanceOverview summarizes the attendance rows visible under the
// caller's scope.
func (s *AnalyticsService) AttendanceOverview(ctx context.Context, scope identity.EffectiveScope) *AttendanceOverview {
	rows := s.scopedAttendance(scope)
	return &AttendanceOverview{
		Summary:     analytics.SummarizeAttendance(rows),
		Departments: analytics.SummarizeByDepartment(rows),
		Rows:        len(rows),
	}
}

// ActivityOverview summarizes the activity rows visible under the
// caller's scope.
func (s *AnalyticsService) ActivityOverview(ctx context.Context, scope identity.EffectiveScope) *ActivityOverview {
	s.mu.RLock()
	rows := analytics.FilterRows(s.activity, scope)
	s.mu.RUnlock()
	return &ActivityOverview{
		Summary: analytics.SummarizeActivity(rows),
		Rows:    len(rows),
	}
}

func (s *AnalyticsService) scopedAttendance(scope identity.EffectiveScope) []analytics.AttendanceRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.FilterRows(s.attendance, scope)
}

var attendanceExportHeaders = []any{
	"Email", "Name", "Company", "Function", "Department",
	"Date", "Present", "On Time", "Work Hours", "Leave Type",
}

// ExportAttendance writes the scoped attendance rows into a workbook.
// The export carries only what the caller is allowed to see.
func (s *AnalyticsService) ExportAttendance(ctx context.Context, scope identity.EffectiveScope) (*bytes.Buffer, error) {
	rows := s.scopedAttendance(scope)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &attendanceExportHeaders); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		flag := func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		}
		record := []any{
			row.Email, row.Name, row.Company, row.Function, row.Department,
			row.Date.Format("2006-01-02"), flag(row.Present), flag(row.OnTime),
			row.WorkHours.String(), row.LeaveType,
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
