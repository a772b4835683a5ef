package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/workforce/backend/internal/domain/shared"
)

// RoleKind classifies a role by its name. Reserved names carry
// built-in semantics; everything else is a custom role.
type RoleKind string

const (
	// RoleKindAdmin bypasses every scope restriction.
	RoleKindAdmin RoleKind = "admin"
	// RoleKindUser is the default role with self-only visibility.
	RoleKindUser RoleKind = "user"
	// RoleKindLevel derives its scope from the holder's position in
	// the org tree ("N", "N-1", ...).
	RoleKindLevel RoleKind = "level"
	// RoleKindCustom is an operator-defined role.
	RoleKindCustom RoleKind = "custom"
)

const (
	RoleNameAdmin = "admin"
	RoleNameUser  = "user"
)

var levelRolePattern = regexp.MustCompile(`^N(-[1-9][0-9]*)?$`)

// ClassifyRoleName maps a role name onto its kind.
func ClassifyRoleName(name string) RoleKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RoleNameAdmin:
		return RoleKindAdmin
	case RoleNameUser:
		return RoleKindUser
	}
	if levelRolePattern.MatchString(strings.TrimSpace(name)) {
		return RoleKindLevel
	}
	return RoleKindCustom
}

// IsReservedRoleName reports whether the name has built-in semantics.
func IsReservedRoleName(name string) bool {
	return ClassifyRoleName(name) != RoleKindCustom
}

// Role is the aggregate tying a name to module permissions and a
// data scope. Reserved roles keep their scope semantics fixed.
type Role struct {
	shared.BaseAggregateRoot
	Name        string
	Kind        RoleKind
	Description string
	ScopeLevel  ScopeLevel
	AllowLists  AllowLists
	Permissions PermissionMap
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "role name cannot be empty")
	}
	if len(name) > 64 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "role name cannot exceed 64 characters")
	}
	return nil
}

// NewRole creates a role. The kind is derived from the name; reserved
// names may be created (seeding relies on it) but become immutable.
func NewRole(name, description string, level ScopeLevel, lists AllowLists, perms PermissionMap) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	if _, err := ParseScopeLevel(string(level)); err != nil {
		return nil, err
	}
	if perms == nil {
		perms = PermissionMap{}
	}
	if err := perms.Validate(); err != nil {
		return nil, err
	}

	role := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Kind:              ClassifyRoleName(name),
		Description:       strings.TrimSpace(description),
		ScopeLevel:        level,
		AllowLists:        lists.Normalize(),
		Permissions:       perms.Clone(),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))
	return role, nil
}

// NewAdminRole builds the built-in admin role with full permissions.
func NewAdminRole() (*Role, error) {
	return NewRole(RoleNameAdmin, "Built-in administrator role",
		ScopeAll, AllowLists{}, DefaultAdminPermissions())
}

// NewUserRole builds the built-in default user role.
func NewUserRole() (*Role, error) {
	return NewRole(RoleNameUser, "Built-in default role",
		ScopeDepartment, AllowLists{}, DefaultUserPermissions())
}

// IsReserved reports whether this role carries built-in semantics.
func (r *Role) IsReserved() bool {
	return r.Kind != RoleKindCustom
}

// CanDelete reports whether the role may be removed.
func (r *Role) CanDelete() error {
	if r.IsReserved() {
		return shared.NewDomainError("RESERVED_ROLE",
			fmt.Sprintf("role %q is reserved and cannot be deleted", r.Name))
	}
	return nil
}

// Rename changes the role name. Reserved roles cannot be renamed, and
// a rename cannot collide with a reserved name.
func (r *Role) Rename(name string) error {
	if r.IsReserved() {
		return shared.NewDomainError("RESERVED_ROLE",
			fmt.Sprintf("role %q is reserved and cannot be renamed", r.Name))
	}
	if err := validateRoleName(name); err != nil {
		return err
	}
	if IsReservedRoleName(name) {
		return shared.NewDomainError("RESERVED_ROLE",
			fmt.Sprintf("name %q is reserved", name))
	}
	r.Name = strings.TrimSpace(name)
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleUpdatedEvent(r))
	return nil
}

// UpdateDescription changes the free-form description.
func (r *Role) UpdateDescription(description string) {
	r.Description = strings.TrimSpace(description)
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleUpdatedEvent(r))
}

// UpdateScope replaces the scope level and allow-lists. Reserved level
// roles keep the level their name encodes.
func (r *Role) UpdateScope(level ScopeLevel, lists AllowLists) error {
	if _, err := ParseScopeLevel(string(level)); err != nil {
		return err
	}
	if r.Kind == RoleKindLevel && string(level) != r.Name {
		return shared.NewDomainError("RESERVED_ROLE",
			fmt.Sprintf("role %q encodes its own scope level", r.Name))
	}
	r.ScopeLevel = level
	r.AllowLists = lists.Normalize()
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleUpdatedEvent(r))
	return nil
}

// UpdatePermissions replaces the module permission map.
func (r *Role) UpdatePermissions(perms PermissionMap) error {
	if perms == nil {
		perms = PermissionMap{}
	}
	if err := perms.Validate(); err != nil {
		return err
	}
	r.Permissions = perms.Clone()
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleUpdatedEvent(r))
	return nil
}

// EffectiveLevel resolves the scope level a holder of this role gets.
// Level roles take the level from their name; admin is unrestricted.
func (r *Role) EffectiveLevel() ScopeLevel {
	switch r.Kind {
	case RoleKindAdmin:
		return ScopeAll
	case RoleKindLevel:
		return ScopeLevel(r.Name)
	default:
		return r.ScopeLevel
	}
}
