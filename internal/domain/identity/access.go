package identity

import (
	"fmt"

	"github.com/workforce/backend/internal/domain/shared"
)

// DenyReason explains why an access check failed.
type DenyReason string

const (
	DenyNone            DenyReason = ""
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyModuleDisabled  DenyReason = "module_disabled"
	DenyFeatureDenied   DenyReason = "feature_denied"
)

// AccessDecision is the result of an access check. Allowed is false
// iff Reason is set.
type AccessDecision struct {
	Allowed bool
	Reason  DenyReason
	Module  ModuleID
}

// Err converts a denial into a domain error, nil when allowed.
func (d AccessDecision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyUnauthenticated:
		return shared.NewDomainError("UNAUTHENTICATED", "authentication required")
	case DenyModuleDisabled:
		return shared.NewDomainError("MODULE_DISABLED",
			fmt.Sprintf("module %q is not enabled for this role", d.Module))
	default:
		return shared.NewDomainError("FEATURE_DENIED",
			fmt.Sprintf("none of the requested features are enabled in module %q", d.Module))
	}
}

// Actor is the authenticated principal an access check runs against.
type Actor struct {
	RoleName    string
	Permissions PermissionMap
}

// ActorFromRole builds an actor from a role aggregate.
func ActorFromRole(role *Role) Actor {
	if role == nil {
		return Actor{}
	}
	return Actor{RoleName: role.Name, Permissions: role.Permissions}
}

// AccessRequest names what a caller wants to do. A zero Module means
// DefaultModule; an empty Features list asks only for module access.
type AccessRequest struct {
	Module   ModuleID
	Features []FeatureID
}

// CheckAccess decides whether the actor may use the requested module
// and features. It is a pure decision function:
//
//  1. No role on the actor denies with unauthenticated.
//  2. The admin role is allowed unconditionally, whatever its
//     permission map says.
//  3. A module absent from the map or not enabled denies.
//  4. Feature semantics are OR: with no features requested, module
//     access suffices; otherwise any one enabled feature allows.
func CheckAccess(actor Actor, req AccessRequest) AccessDecision {
	module := req.Module
	if module == "" {
		module = DefaultModule
	}

	if actor.RoleName == "" {
		return AccessDecision{Reason: DenyUnauthenticated, Module: module}
	}
	if ClassifyRoleName(actor.RoleName) == RoleKindAdmin {
		return AccessDecision{Allowed: true, Module: module}
	}

	perm, ok := actor.Permissions[module]
	if !ok || !perm.Enabled {
		return AccessDecision{Reason: DenyModuleDisabled, Module: module}
	}

	if len(req.Features) == 0 {
		return AccessDecision{Allowed: true, Module: module}
	}
	for _, f := range req.Features {
		if perm.HasFeature(f) {
			return AccessDecision{Allowed: true, Module: module}
		}
	}
	return AccessDecision{Reason: DenyFeatureDenied, Module: module}
}
