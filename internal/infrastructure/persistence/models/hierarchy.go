package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/hierarchy"
	"github.com/workforce/backend/internal/domain/identity"
)

// SnapshotModel is the persistence model for an employee-list upload.
type SnapshotModel struct {
	AggregateModel
	FileName   string `gorm:"type:varchar(255);not null"`
	UploadedBy string `gorm:"type:varchar(200)"`
	RowCount   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SnapshotModel) TableName() string {
	return "employee_snapshots"
}

// EmployeeRowModel is one employee row within a snapshot.
type EmployeeRowModel struct {
	BaseModel
	SnapshotID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Email          string    `gorm:"type:varchar(200);index"`
	DisplayName    string    `gorm:"type:varchar(200)"`
	EmployeeCode   string    `gorm:"type:varchar(64);index"`
	Company        string    `gorm:"type:varchar(200)"`
	Function       string    `gorm:"type:varchar(200)"`
	Department     string    `gorm:"type:varchar(200)"`
	SupervisorName string    `gorm:"type:varchar(200)"`
	ManagerCode    string    `gorm:"type:varchar(64)"`
	OrgLevel       string    `gorm:"type:varchar(10)"`
	SourceFile     string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (EmployeeRowModel) TableName() string {
	return "employee_rows"
}

// ToDomain converts the row model to a domain employee record.
func (m *EmployeeRowModel) ToDomain() hierarchy.Employee {
	return hierarchy.Employee{
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		EmployeeCode:   m.EmployeeCode,
		Company:        m.Company,
		Function:       m.Function,
		Department:     m.Department,
		SupervisorName: m.SupervisorName,
		ManagerCode:    m.ManagerCode,
		OrgLevel:       identity.ScopeLevel(m.OrgLevel),
		SourceFile:     m.SourceFile,
	}
}

// FromDomain populates the row model from a domain employee record.
// Rows are value records without domain identity, so the model
// assigns its own ID.
func (m *EmployeeRowModel) FromDomain(snapshotID uuid.UUID, e hierarchy.Employee) {
	now := time.Now()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.SnapshotID = snapshotID
	m.Email = e.Email
	m.DisplayName = e.DisplayName
	m.EmployeeCode = e.EmployeeCode
	m.Company = e.Company
	m.Function = e.Function
	m.Department = e.Department
	m.SupervisorName = e.SupervisorName
	m.ManagerCode = e.ManagerCode
	m.OrgLevel = string(e.OrgLevel)
	m.SourceFile = e.SourceFile
}
