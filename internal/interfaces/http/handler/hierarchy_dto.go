package handler

import (
	"time"

	"github.com/google/uuid"

	hierarchyapp "github.com/workforce/backend/internal/application/hierarchy"
)

// SnapshotResponse represents one uploaded employee list
type SnapshotResponse struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EmployeeListUploadResponse reports an accepted employee-list upload
type EmployeeListUploadResponse struct {
	Snapshot  SnapshotResponse `json:"snapshot"`
	Employees int              `json:"employees"`
	Indexed   int              `json:"indexed"`
}

// EmployeeResponse represents one employee record
type EmployeeResponse struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	EmployeeCode   string `json:"employee_code"`
	Company        string `json:"company"`
	Function       string `json:"function"`
	Department     string `json:"department"`
	SupervisorName string `json:"supervisor_name"`
	OrgLevel       string `json:"org_level"`
}

func snapshotResponseFrom(info hierarchyapp.SnapshotInfo) SnapshotResponse {
	return SnapshotResponse{
		ID:         info.ID,
		FileName:   info.FileName,
		UploadedBy: info.UploadedBy,
		RowCount:   info.RowCount,
		UploadedAt: info.UploadedAt,
	}
}

func employeeResponseFrom(info hierarchyapp.EmployeeInfo) EmployeeResponse {
	return EmployeeResponse{
		Email:          info.Email,
		DisplayName:    info.DisplayName,
		EmployeeCode:   info.EmployeeCode,
		Company:        info.Company,
		Function:       info.Function,
		Department:     info.Department,
		SupervisorName: info.SupervisorName,
		OrgLevel:       info.OrgLevel,
	}
}
