package hierarchy

import (
	"strings"

	"github.com/workforce/backend/internal/domain/identity"
)

// Employee is one row of an uploaded employee-list snapshot. Records
// are value objects; the snapshot aggregate owns their lifecycle.
type Employee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"name"`
	EmployeeCode   string `json:"employee_code"`
	Company        string `json:"company"`
	Function       string `json:"function"`
	Department     string `json:"department"`
	SupervisorName string `json:"supervisor_name"`
	// ManagerCode references the supervisor by employee code or email.
	// A dangling reference is tolerated and treated as no supervisor.
	ManagerCode string `json:"manager_code"`
	// OrgLevel is assigned when the index is built.
	OrgLevel identity.ScopeLevel `json:"org_level"`
	// SourceFile records which upload the row came from.
	SourceFile string `json:"source_file"`
}

// Normalize trims every field and lower-cases the email join key.
func (e Employee) Normalize() Employee {
	return Employee{
		Email:          identity.NormalizeEmail(e.Email),
		DisplayName:    strings.TrimSpace(e.DisplayName),
		EmployeeCode:   strings.TrimSpace(e.EmployeeCode),
		Company:        strings.TrimSpace(e.Company),
		Function:       strings.TrimSpace(e.Function),
		Department:     strings.TrimSpace(e.Department),
		SupervisorName: strings.TrimSpace(e.SupervisorName),
		ManagerCode:    strings.TrimSpace(e.ManagerCode),
		OrgLevel:       e.OrgLevel,
		SourceFile:     strings.TrimSpace(e.SourceFile),
	}
}

// HasEmail reports whether the row carries the mandatory join key.
func (e Employee) HasEmail() bool {
	return identity.NormalizeEmail(e.Email) != ""
}
