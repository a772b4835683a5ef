package handler

import (
	"time"

	"github.com/google/uuid"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// UserResponse represents account data in responses
type UserResponse struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	DisplayName   string             `json:"display_name"`
	RoleName      string             `json:"role_name"`
	Status        string             `json:"status"`
	EmployeeEmail string             `json:"employee_email,omitempty"`
	ScopeLevel    string             `json:"scope_level,omitempty"`
	AllowLists    *AllowListsPayload `json:"allow_lists,omitempty"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// ScopeResponse represents the caller's resolved analytics scope
type ScopeResponse struct {
	Unrestricted bool     `json:"unrestricted"`
	Companies    []string `json:"companies,omitempty"`
	Functions    []string `json:"functions,omitempty"`
	Departments  []string `json:"departments,omitempty"`
}

// CurrentUserResponse represents the response body for the profile
// endpoint
type CurrentUserResponse struct {
	User        UserResponse                       `json:"user"`
	Role        RoleResponse                       `json:"role"`
	Scope       ScopeResponse                      `json:"scope"`
	Permissions map[string]ModulePermissionPayload `json:"permissions"`
}

func userResponseFrom(info identityapp.UserInfo) UserResponse {
	resp := UserResponse{
		ID:            info.ID,
		Email:         info.Email,
		DisplayName:   info.DisplayName,
		RoleName:      info.RoleName,
		Status:        info.Status,
		EmployeeEmail: info.EmployeeEmail,
		ScopeLevel:    info.ScopeLevel,
	}
	if !info.AllowLists.IsEmpty() {
		lists := allowListsPayloadFrom(info.AllowLists)
		resp.AllowLists = &lists
	}
	return resp
}

func scopeResponseFrom(scope identity.EffectiveScope) ScopeResponse {
	return ScopeResponse{
		Unrestricted: scope.Unrestricted,
		Companies:    scope.AllowLists.Companies,
		Functions:    scope.AllowLists.Functions,
		Departments:  scope.AllowLists.Departments,
	}
}
