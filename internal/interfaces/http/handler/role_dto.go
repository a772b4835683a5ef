package handler

import (
	"github.com/google/uuid"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
)

// AllowListsPayload mirrors a role's company, function, and
// department allow-lists
type AllowListsPayload struct {
	Companies   []string `json:"companies"`
	Functions   []string `json:"functions"`
	Departments []string `json:"departments"`
}

// ModulePermissionPayload mirrors one module's permission entry
type ModulePermissionPayload struct {
	Enabled  bool            `json:"enabled"`
	Features map[string]bool `json:"features"`
}

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Name        string                             `json:"name" binding:"required,max=64"`
	Description string                             `json:"description"`
	ScopeLevel  string                             `json:"scope_level" binding:"required"`
	AllowLists  AllowListsPayload                  `json:"allow_lists"`
	Permissions map[string]ModulePermissionPayload `json:"permissions"`
}

// UpdateRoleRequest represents the request body for updating a role.
// Omitted fields keep their stored value.
type UpdateRoleRequest struct {
	Name        *string                             `json:"name" binding:"omitempty,max=64"`
	Description *string                             `json:"description"`
	ScopeLevel  *string                             `json:"scope_level"`
	AllowLists  *AllowListsPayload                  `json:"allow_lists"`
	Permissions *map[string]ModulePermissionPayload `json:"permissions"`
}

// RoleResponse represents role data in responses
type RoleResponse struct {
	ID          uuid.UUID                          `json:"id"`
	Name        string                             `json:"name"`
	Kind        string                             `json:"kind"`
	Description string                             `json:"description"`
	ScopeLevel  string                             `json:"scope_level"`
	AllowLists  AllowListsPayload                  `json:"allow_lists"`
	Permissions map[string]ModulePermissionPayload `json:"permissions"`
	UserCount   int64                              `json:"user_count"`
}

// ModuleCatalogResponse lists one module with its known features,
// for the role permission editor
type ModuleCatalogResponse struct {
	Module   string   `json:"module"`
	Features []string `json:"features"`
}

func (p AllowListsPayload) toDomain() identity.AllowLists {
	return identity.AllowLists{
		Companies:   p.Companies,
		Functions:   p.Functions,
		Departments: p.Departments,
	}
}

func allowListsPayloadFrom(lists identity.AllowLists) AllowListsPayload {
	return AllowListsPayload{
		Companies:   lists.Companies,
		Functions:   lists.Functions,
		Departments: lists.Departments,
	}
}

func permissionMapFrom(payload map[string]ModulePermissionPayload) identity.PermissionMap {
	if payload == nil {
		return nil
	}
	perms := make(identity.PermissionMap, len(payload))
	for module, entry := range payload {
		features := make(map[identity.FeatureID]bool, len(entry.Features))
		for feature, enabled := range entry.Features {
			features[identity.FeatureID(feature)] = enabled
		}
		perms[identity.ModuleID(module)] = identity.ModulePermission{
			Enabled:  entry.Enabled,
			Features: features,
		}
	}
	return perms
}

func permissionPayloadFrom(perms identity.PermissionMap) map[string]ModulePermissionPayload {
	payload := make(map[string]ModulePermissionPayload, len(perms))
	for module, entry := range perms {
		features := make(map[string]bool, len(entry.Features))
		for feature, enabled := range entry.Features {
			features[string(feature)] = enabled
		}
		payload[string(module)] = ModulePermissionPayload{
			Enabled:  entry.Enabled,
			Features: features,
		}
	}
	return payload
}

func roleResponseFrom(info identityapp.RoleInfo) RoleResponse {
	return RoleResponse{
		ID:          info.ID,
		Name:        info.Name,
		Kind:        info.Kind,
		Description: info.Description,
		ScopeLevel:  info.ScopeLevel,
		AllowLists:  allowListsPayloadFrom(info.AllowLists),
		Permissions: permissionPayloadFrom(info.Permissions),
		UserCount:   info.UserCount,
	}
}
