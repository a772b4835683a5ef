package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/workforce/backend/internal/domain/shared"
)

// UserStatus represents the lifecycle state of a dashboard account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lower-cases and trims an email address. Emails are
// the join key between accounts and the employee hierarchy, so every
// comparison goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return shared.NewDomainError("INVALID_EMAIL", fmt.Sprintf("invalid email address %q", email))
	}
	return nil
}

// User is a dashboard account. RoleName links it to a Role aggregate
// by name rather than ID so level roles ("N-1") read naturally.
// EmployeeEmail, ScopeLevel and AllowLists carry the account's own
// data scope; all three empty means the role decides.
type User struct {
	shared.BaseAggregateRoot
	Email         string
	DisplayName   string
	PasswordHash  string
	RoleName      string
	Status        UserStatus
	EmployeeEmail string
	ScopeLevel    ScopeLevel
	AllowLists    AllowLists
}

// NewUser creates an account. The password hash is computed by the
// caller; the domain never sees plaintext.
func NewUser(email, displayName, passwordHash, roleName string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "password hash cannot be empty")
	}
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		roleName = RoleNameUser
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             NormalizeEmail(email),
		DisplayName:       strings.TrimSpace(displayName),
		PasswordHash:      passwordHash,
		RoleName:          roleName,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// LinkEmployee ties the account to an employee list row whose address
// differs from the sign-in email. An empty email clears the link.
func (u *User) LinkEmployee(email string) error {
	if strings.TrimSpace(email) == "" {
		u.EmployeeEmail = ""
		u.IncrementVersion()
		return nil
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	u.EmployeeEmail = NormalizeEmail(email)
	u.IncrementVersion()
	return nil
}

// SetScopeLevel sets the account's own visibility level. An empty
// level falls back to the role's.
func (u *User) SetScopeLevel(raw string) error {
	if strings.TrimSpace(raw) == "" {
		u.ScopeLevel = ""
		u.IncrementVersion()
		return nil
	}
	level, err := ParseScopeLevel(raw)
	if err != nil {
		return err
	}
	u.ScopeLevel = level
	u.IncrementVersion()
	return nil
}

// SetAllowLists stores the account's scope lists, either resolved
// from the hierarchy or hand-edited by an admin.
func (u *User) SetAllowLists(lists AllowLists) {
	u.AllowLists = lists
	u.IncrementVersion()
}

// ScopeLookupEmail is the address used to place the account in the
// org tree. Without an explicit employee link it falls back to the
// sign-in email.
func (u *User) ScopeLookupEmail() string {
	if u.EmployeeEmail != "" {
		return u.EmployeeEmail
	}
	return u.Email
}

// IsActive reports whether the account can sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// AssignRole changes the account's role by name.
func (u *User) AssignRole(roleName string) error {
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "role name cannot be empty")
	}
	u.RoleName = roleName
	u.IncrementVersion()
	u.AddDomainEvent(NewUserRoleChangedEvent(u))
	return nil
}

// ChangePassword replaces the stored hash.
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "password hash cannot be empty")
	}
	u.PasswordHash = passwordHash
	u.IncrementVersion()
	return nil
}

// UpdateDisplayName changes the display name.
func (u *User) UpdateDisplayName(name string) {
	u.DisplayName = strings.TrimSpace(name)
	u.IncrementVersion()
}

// Deactivate disables sign-in without deleting the account.
func (u *User) Deactivate() {
	if u.Status == UserStatusInactive {
		return
	}
	u.Status = UserStatusInactive
	u.IncrementVersion()
	u.AddDomainEvent(NewUserDeactivatedEvent(u))
}

// Activate re-enables a deactivated account.
func (u *User) Activate() {
	if u.Status == UserStatusActive {
		return
	}
	u.Status = UserStatusActive
	u.IncrementVersion()
}
