package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// UserInfo contains basic account information returned to callers
type UserInfo struct {
	ID            uuid.UUID
	Email         string
	DisplayName   string
	RoleName      string
	Status        string
	EmployeeEmail string
	ScopeLevel    string
	AllowLists    identity.AllowLists
}

// UserInfoFromDomain maps a domain user to its outward representation.
func UserInfoFromDomain(user *identity.User) UserInfo {
	return UserInfo{
		ID:            user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		RoleName:      user.RoleName,
		Status:        string(user.Status),
		EmployeeEmail: user.EmployeeEmail,
		ScopeLevel:    string(user.ScopeLevel),
		AllowLists:    user.AllowLists,
	}
}

// CreateRoleInput contains the input for creating a role
type CreateRoleInput struct {
	Name        string
	Description string
	ScopeLevel  string
	AllowLists  identity.AllowLists
	Permissions identity.PermissionMap
}

// UpdateRoleInput contains the input for updating a role. Nil fields
// keep their stored value.
type UpdateRoleInput struct {
	Name        *string
	Description *string
	ScopeLevel  *string
	AllowLists  *identity.AllowLists
	Permissions *identity.PermissionMap
}

// RoleInfo is the outward representation of a role
type RoleInfo struct {
	ID          uuid.UUID
	Name        string
	Kind        string
	Description string
	ScopeLevel  string
	AllowLists  identity.AllowLists
	Permissions identity.PermissionMap
	UserCount   int64
}

// RoleInfoFromDomain maps a domain role to its outward representation.
func RoleInfoFromDomain(role *identity.Role, userCount int64) RoleInfo {
	return RoleInfo{
		ID:          role.ID,
		Name:        role.Name,
		Kind:        string(role.Kind),
		Description: role.Description,
		ScopeLevel:  string(role.ScopeLevel),
		AllowLists:  role.AllowLists,
		Permissions: role.Permissions,
		UserCount:   userCount,
	}
}

// CreateUserInput contains the input for creating an account. An
// explicit AllowLists skips the hierarchy resolution that otherwise
// runs when EmployeeEmail and ScopeLevel are set.
type CreateUserInput struct {
	Email         string
	DisplayName   string
	Password      string
	RoleName      string
	EmployeeEmail string
	ScopeLevel    string
	AllowLists    *identity.AllowLists
}

// UpdateUserInput contains the input for updating an account. Nil
// fields keep their stored value.
type UpdateUserInput struct {
	DisplayName   *string
	Password      *string
	RoleName      *string
	Active        *bool
	EmployeeEmail *string
	ScopeLevel    *string
	AllowLists    *identity.AllowLists
}

// BulkUserOutcome reports the fate of one row in a bulk upload.
type BulkUserOutcome struct {
	Row     int
	Email   string
	Created bool
	Message string
}

// BulkUploadResult summarizes a bulk account upload.
type BulkUploadResult struct {
	Created  int
	Skipped  int
	Outcomes []BulkUserOutcome
}
