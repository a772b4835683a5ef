package importer

import (
	"fmt"
	"io"

	"github.com/workforce/backend/internal/domain/hierarchy"
)

// Header aliases observed across real employee-list exports. Order is
// preference; the first non-empty cell wins. The "Offical" variant is
// a long-standing typo in upstream HR exports and must stay supported.
var (
	emailAliases      = []string{"Email (Official)", "Email (Offical)", "Email"}
	nameAliases       = []string{"Employee Name", "Name", "Employee name"}
	codeAliases       = []string{"Employee Code", "Employee ID", "Emp Code", "Code"}
	companyAliases    = []string{"Company Name", "Company", "Comapny Name", "Legal Entity", "Company Name (Legal)", "Entity"}
	supervisorAliases = []string{"Supervisor Name", "Supervisor", "Line Manager Name", "Manager Name"}
	managerIDAliases  = []string{"Line Manager Employee ID", "Line Manager ID", "Line Manager Code", "Report To ID", "Manager ID"}
)

// ParseEmployeeList reads an employee-list workbook into hierarchy
// rows. Rows without an email are kept; the hierarchy index drops
// them when it is built.
func ParseEmployeeList(r io.Reader) ([]hierarchy.Employee, error) {
	sheet, err := OpenSheet(r)
	if err != nil {
		return nil, err
	}
	if !sheet.HasColumn(emailAliases...) {
		return nil, fmt.Errorf("%w: no email column found", ErrMissingHeader)
	}

	out := make([]hierarchy.Employee, 0, sheet.RowCount())
	for i := 0; i < sheet.RowCount(); i++ {
		out = append(out, hierarchy.Employee{
			Email:          sheet.Cell(i, emailAliases...),
			DisplayName:    sheet.Cell(i, nameAliases...),
			EmployeeCode:   sheet.Cell(i, codeAliases...),
			Company:        sheet.Cell(i, companyAliases...),
			Function:       sheet.Cell(i, "Function"),
			Department:     sheet.Cell(i, "Department"),
			SupervisorName: sheet.Cell(i, supervisorAliases...),
			ManagerCode:    sheet.Cell(i, managerIDAliases...),
		})
	}
	return out, nil
}
