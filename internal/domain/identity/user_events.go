package identity

import "github.com/workforce/backend/internal/domain/shared"

// UserCreatedEvent fires when an account is created.
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
}

func NewUserCreatedEvent(user *User) UserCreatedEvent {
	return UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.created", user.ID),
		Email:           user.Email,
		RoleName:        user.RoleName,
	}
}

// UserRoleChangedEvent fires when an account's role changes.
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
}

func NewUserRoleChangedEvent(user *User) UserRoleChangedEvent {
	return UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.role_changed", user.ID),
		Email:           user.Email,
		RoleName:        user.RoleName,
	}
}

// UserDeactivatedEvent fires when an account is disabled.
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

func NewUserDeactivatedEvent(user *User) UserDeactivatedEvent {
	return UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.deactivated", user.ID),
		Email:           user.Email,
	}
}
