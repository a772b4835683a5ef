package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/workforce/backend/internal/domain/identity"
)

// BulkUserRow is one account parsed from a bulk user upload.
type BulkUserRow struct {
	Row      int
	Name     string
	Email    string
	Username string
	Role     string
	Password string
}

// BulkUserResult carries the parsed rows plus per-row problems, so a
// partially bad sheet still creates the valid accounts.
type BulkUserResult struct {
	Rows   []BulkUserRow
	Errors []RowError
}

// BulkUserTemplateHeaders is the column layout of the downloadable
// bulk upload template.
var BulkUserTemplateHeaders = []string{
	"Employee Name",
	"Designation",
	"Function",
	"Email (Official)",
	"Username",
	"Role",
	"Password",
}

// ParseBulkUsers reads a bulk user workbook. A row with an empty
// email is skipped silently unless other cells carry data, in which
// case it is reported as a partial row.
func ParseBulkUsers(r io.Reader) (*BulkUserResult, error) {
	sheet, err := OpenSheet(r)
	if err != nil {
		return nil, err
	}
	if !sheet.HasColumn(emailAliases[0], emailAliases[1]) {
		return nil, fmt.Errorf("%w: missing %q or %q column", ErrMissingHeader, emailAliases[0], emailAliases[1])
	}

	result := &BulkUserResult{}
	for i := 0; i < sheet.RowCount(); i++ {
		email := sheet.Cell(i, emailAliases[0], emailAliases[1])
		if email == "" {
			hasOtherData := sheet.Cell(i, nameAliases...) != "" ||
				sheet.Cell(i, "Designation") != "" ||
				sheet.Cell(i, "Function") != ""
			if hasOtherData {
				result.Errors = append(result.Errors, RowError{
					Row:     sheet.SheetRow(i),
					Column:  emailAliases[0],
					Message: "missing or empty email",
				})
			}
			continue
		}
		if err := identity.ValidateEmail(email); err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     sheet.SheetRow(i),
				Column:  emailAliases[0],
				Message: fmt.Sprintf("invalid email format: %s", email),
			})
			continue
		}

		username := sheet.Cell(i, "Username")
		if username == "" {
			username = usernameFromEmail(identity.NormalizeEmail(email))
		}

		result.Rows = append(result.Rows, BulkUserRow{
			Row:      sheet.SheetRow(i),
			Name:     sheet.Cell(i, nameAliases...),
			Email:    identity.NormalizeEmail(email),
			Username: username,
			Role:     sheet.Cell(i, "Role"),
			Password: sheet.Cell(i, "Password"),
		})
	}
	return result, nil
}

func usernameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return strings.TrimSpace(email[:at])
}
