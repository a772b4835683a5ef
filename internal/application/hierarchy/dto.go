package hierarchy

import (
	"time"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/hierarchy"
)

// UploadInput contains the input for an employee-list upload
type UploadInput struct {
	FileName   string
	UploadedBy string
}

// SnapshotInfo is the outward representation of an uploaded list
type SnapshotInfo struct {
	ID         uuid.UUID
	FileName   string
	UploadedBy string
	RowCount   int
	UploadedAt time.Time
}

// SnapshotInfoFromDomain maps a snapshot to its outward representation.
func SnapshotInfoFromDomain(snap *hierarchy.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:         snap.ID,
		FileName:   snap.FileName,
		UploadedBy: snap.UploadedBy,
		RowCount:   snap.RowCount(),
		UploadedAt: snap.CreatedAt,
	}
}

// UploadResult reports an accepted employee-list upload.
type UploadResult struct {
	Snapshot  SnapshotInfo
	Employees int
	Indexed   int
}

// EmployeeInfo is the outward representation of one employee record.
type EmployeeInfo struct {
	Email          string
	DisplayName    string
	EmployeeCode   string
	Company        string
	Function       string
	Department     string
	SupervisorName string
	OrgLevel       string
}

// EmployeeInfoFromDomain maps an employee record to its outward form.
func EmployeeInfoFromDomain(e hierarchy.Employee) EmployeeInfo {
	return EmployeeInfo{
		Email:          e.Email,
		DisplayName:    e.DisplayName,
		EmployeeCode:   e.EmployeeCode,
		Company:        e.Company,
		Function:       e.Function,
		Department:     e.Department,
		SupervisorName: e.SupervisorName,
		OrgLevel:       string(e.OrgLevel),
	}
}
