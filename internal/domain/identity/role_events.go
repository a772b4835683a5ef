package identity

import "github.com/workforce/backend/internal/domain/shared"

// RoleCreatedEvent fires when a role is created.
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Name string   `json:"name"`
	Kind RoleKind `json:"kind"`
}

func NewRoleCreatedEvent(role *Role) RoleCreatedEvent {
	return RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.role.created", role.ID),
		Name:            role.Name,
		Kind:            role.Kind,
	}
}

// RoleUpdatedEvent fires when a role's name, scope, or permissions change.
type RoleUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewRoleUpdatedEvent(role *Role) RoleUpdatedEvent {
	return RoleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.role.updated", role.ID),
		Name:            role.Name,
	}
}

// RoleDeletedEvent fires when a custom role is deleted.
type RoleDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewRoleDeletedEvent(role *Role) RoleDeletedEvent {
	return RoleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.role.deleted", role.ID),
		Name:            role.Name,
	}
}
