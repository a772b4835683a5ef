package models

import (
	"encoding/json"
	"fmt"

	"github.com/workforce/backend/internal/domain/identity"
)

// RoleModel is the persistence model for the Role aggregate. The
// allow-lists and permission map are stored as JSON documents.
type RoleModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Kind        string `gorm:"type:varchar(20);not null"`
	Description string `gorm:"type:text"`
	ScopeLevel  string `gorm:"type:varchar(10);not null;default:'N-2'"`
	AllowLists  string `gorm:"type:jsonb;default:'{}'"`
	Permissions string `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role aggregate.
func (m *RoleModel) ToDomain() (*identity.Role, error) {
	var lists identity.AllowLists
	if m.AllowLists != "" {
		if err := json.Unmarshal([]byte(m.AllowLists), &lists); err != nil {
			return nil, fmt.Errorf("decode allow lists for role %q: %w", m.Name, err)
		}
	}
	perms := identity.PermissionMap{}
	if m.Permissions != "" {
		if err := json.Unmarshal([]byte(m.Permissions), &perms); err != nil {
			return nil, fmt.Errorf("decode permissions for role %q: %w", m.Name, err)
		}
	}

	return &identity.Role{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Kind:              identity.RoleKind(m.Kind),
		Description:       m.Description,
		ScopeLevel:        identity.ScopeLevel(m.ScopeLevel),
		AllowLists:        lists,
		Permissions:       perms,
	}, nil
}

// FromDomain populates the persistence model from a domain Role.
func (m *RoleModel) FromDomain(role *identity.Role) error {
	lists, err := json.Marshal(role.AllowLists)
	if err != nil {
		return fmt.Errorf("encode allow lists for role %q: %w", role.Name, err)
	}
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions for role %q: %w", role.Name, err)
	}

	m.FromDomainAggregateRoot(role.BaseAggregateRoot)
	m.Name = role.Name
	m.Kind = string(role.Kind)
	m.Description = role.Description
	m.ScopeLevel = string(role.ScopeLevel)
	m.AllowLists = string(lists)
	m.Permissions = string(perms)
	return nil
}

// UserModel is the persistence model for the User aggregate. The
// account's own scope lists are stored as a JSON document next to the
// employee link and level that produced them.
type UserModel struct {
	AggregateModel
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	DisplayName   string `gorm:"type:varchar(200)"`
	PasswordHash  string `gorm:"type:varchar(255);not null"`
	RoleName      string `gorm:"type:varchar(64);not null;index;default:'user'"`
	Status        string `gorm:"type:varchar(20);not null;default:'active'"`
	EmployeeEmail string `gorm:"type:varchar(200);index"`
	ScopeLevel    string `gorm:"type:varchar(10)"`
	AllowLists    string `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() (*identity.User, error) {
	var lists identity.AllowLists
	if m.AllowLists != "" {
		if err := json.Unmarshal([]byte(m.AllowLists), &lists); err != nil {
			return nil, fmt.Errorf("decode allow lists for user %q: %w", m.Email, err)
		}
	}

	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		RoleName:          m.RoleName,
		Status:            identity.UserStatus(m.Status),
		EmployeeEmail:     m.EmployeeEmail,
		ScopeLevel:        identity.ScopeLevel(m.ScopeLevel),
		AllowLists:        lists,
	}, nil
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(user *identity.User) error {
	lists, err := json.Marshal(user.AllowLists)
	if err != nil {
		return fmt.Errorf("encode allow lists for user %q: %w", user.Email, err)
	}

	m.FromDomainAggregateRoot(user.BaseAggregateRoot)
	m.Email = user.Email
	m.DisplayName = user.DisplayName
	m.PasswordHash = user.PasswordHash
	m.RoleName = user.RoleName
	m.Status = string(user.Status)
	m.EmployeeEmail = user.EmployeeEmail
	m.ScopeLevel = string(user.ScopeLevel)
	m.AllowLists = string(lists)
	return nil
}
