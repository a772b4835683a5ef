package handler

import identityapp "github.com/workforce/backend/internal/application/identity"

// CreateUserRequest represents the request body for creating an
// account. Allow-lists are recomputed from the employee hierarchy
// when employee_email and scope_level are set and no explicit
// allow_lists are given.
type CreateUserRequest struct {
	Email         string             `json:"email" binding:"required,email"`
	DisplayName   string             `json:"display_name"`
	Password      string             `json:"password" binding:"required,min=6,max=128"`
	RoleName      string             `json:"role_name"`
	EmployeeEmail string             `json:"employee_email" binding:"omitempty,email"`
	ScopeLevel    string             `json:"scope_level"`
	AllowLists    *AllowListsPayload `json:"allow_lists"`
}

// UpdateUserRequest represents the request body for updating an
// account. Omitted fields keep their stored value.
type UpdateUserRequest struct {
	DisplayName   *string            `json:"display_name"`
	Password      *string            `json:"password" binding:"omitempty,min=6,max=128"`
	RoleName      *string            `json:"role_name"`
	Active        *bool              `json:"active"`
	EmployeeEmail *string            `json:"employee_email" binding:"omitempty,email"`
	ScopeLevel    *string            `json:"scope_level"`
	AllowLists    *AllowListsPayload `json:"allow_lists"`
}

// BulkUserOutcomeResponse reports the fate of one bulk upload row
type BulkUserOutcomeResponse struct {
	Row     int    `json:"row"`
	Email   string `json:"email"`
	Created bool   `json:"created"`
	Message string `json:"message,omitempty"`
}

// BulkUploadResponse summarizes a bulk account upload
type BulkUploadResponse struct {
	Created  int                       `json:"created"`
	Skipped  int                       `json:"skipped"`
	Outcomes []BulkUserOutcomeResponse `json:"outcomes"`
}

func bulkUploadResponseFrom(result *identityapp.BulkUploadResult) BulkUploadResponse {
	outcomes := make([]BulkUserOutcomeResponse, len(result.Outcomes))
	for i, o := range result.Outcomes {
		outcomes[i] = BulkUserOutcomeResponse{
			Row:     o.Row,
			Email:   o.Email,
			Created: o.Created,
			Message: o.Message,
		}
	}
	return BulkUploadResponse{
		Created:  result.Created,
		Skipped:  result.Skipped,
		Outcomes: outcomes,
	}
}
