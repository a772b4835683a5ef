package identity

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/auth"
	"github.com/workforce/backend/internal/infrastructure/importer"
)

// AllowListResolver derives allow-lists from the employee hierarchy
// for an account placed at a visibility level.
type AllowListResolver interface {
	ResolveAllowLists(ctx context.Context, employeeEmail string, level identity.ScopeLevel) (identity.AllowLists, error)
}

// UserService handles dashboard account administration
type UserService struct {
	userRepo        identity.UserRepository
	roleRepo        identity.RoleRepository
	hasher          *auth.PasswordHasher
	scopes          AllowListResolver
	defaultPassword string
	logger          *zap.Logger
}

// NewUserService creates a new user service. defaultPassword is used
// for bulk-uploaded rows that leave the password column blank.
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	hasher *auth.PasswordHasher,
	scopes AllowListResolver,
	defaultPassword string,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		hasher:          hasher,
		scopes:          scopes,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// CreateUser registers a new dashboard account.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	if err := identity.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USER_EXISTS",
			fmt.Sprintf("account %q already exists", identity.NormalizeEmail(input.Email)))
	}

	if err := s.ensureRoleExists(ctx, input.RoleName); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password cannot be hashed")
	}

	user, err := identity.NewUser(input.Email, input.DisplayName, hash, input.RoleName)
	if err != nil {
		return nil, err
	}

	if err := user.LinkEmployee(input.EmployeeEmail); err != nil {
		return nil, err
	}
	if err := user.SetScopeLevel(input.ScopeLevel); err != nil {
		return nil, err
	}
	if input.AllowLists != nil {
		user.SetAllowLists(*input.AllowLists)
	} else if err := s.recomputeAllowLists(ctx, user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	auditEvents(s.logger, user)

	s.logger.Info("User created",
		zap.String("email", user.Email),
		zap.String("role", user.RoleName))

	info := UserInfoFromDomain(user)
	return &info, nil
}

// GetUser returns one account by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := UserInfoFromDomain(user)
	return &info, nil
}

// ListUsers returns all accounts ordered by email.
func (s *UserService) ListUsers(ctx context.Context) ([]UserInfo, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, UserInfoFromDomain(user))
	}
	return infos, nil
}

// UpdateUser applies partial changes to an account.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.UpdateDisplayName(*input.DisplayName)
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PASSWORD", "Password cannot be hashed")
		}
		if err := user.ChangePassword(hash); err != nil {
			return nil, err
		}
	}

	if input.RoleName != nil && *input.RoleName != user.RoleName {
		if err := s.ensureRoleExists(ctx, *input.RoleName); err != nil {
			return nil, err
		}
		if err := user.AssignRole(*input.RoleName); err != nil {
			return nil, err
		}
	}

	if input.Active != nil {
		if *input.Active {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	scopeChanged := false
	if input.EmployeeEmail != nil {
		if err := user.LinkEmployee(*input.EmployeeEmail); err != nil {
			return nil, err
		}
		scopeChanged = true
	}
	if input.ScopeLevel != nil {
		if err := user.SetScopeLevel(*input.ScopeLevel); err != nil {
			return nil, err
		}
		scopeChanged = true
	}
	switch {
	case input.AllowLists != nil:
		// A hand-edited list wins over whatever the hierarchy says.
		user.SetAllowLists(*input.AllowLists)
	case scopeChanged:
		if err := s.recomputeAllowLists(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	auditEvents(s.logger, user)

	s.logger.Info("User updated", zap.String("email", user.Email))

	info := UserInfoFromDomain(user)
	return &info, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("email", user.Email))
	return nil
}

// BulkUpload creates accounts from an uploaded workbook. Rows that
// already exist or fail validation are reported, not fatal.
func (s *UserService) BulkUpload(ctx context.Context, r io.Reader) (*BulkUploadResult, error) {
	parsed, err := importer.ParseBulkUsers(r)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_WORKBOOK", "Workbook cannot be read", err)
	}

	result := &BulkUploadResult{}
	for _, rowErr := range parsed.Errors {
		result.Skipped++
		result.Outcomes = append(result.Outcomes, BulkUserOutcome{
			Row:     rowErr.Row,
			Message: rowErr.Message,
		})
	}

	for _, row := range parsed.Rows {
		outcome := s.createFromRow(ctx, row)
		if outcome.Created {
			result.Created++
		} else {
			result.Skipped++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.logger.Info("Bulk user upload processed",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *UserService) createFromRow(ctx context.Context, row importer.BulkUserRow) BulkUserOutcome {
	outcome := BulkUserOutcome{Row: row.Row, Email: row.Email}

	exists, err := s.userRepo.ExistsByEmail(ctx, row.Email)
	if err != nil {
		outcome.Message = err.Error()
		return outcome
	}
	if exists {
		outcome.Message = "account already exists"
		return outcome
	}

	roleName := row.Role
	if roleName == "" {
		roleName = identity.RoleNameUser
	}
	if err := s.ensureRoleExists(ctx, roleName); err != nil {
		outcome.Message = fmt.Sprintf("unknown role %q", roleName)
		return outcome
	}

	password := row.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		outcome.Message = "password cannot be hashed"
		return outcome
	}

	displayName := row.Name
	if displayName == "" {
		displayName = row.Username
	}

	user, err := identity.NewUser(row.Email, displayName, hash, roleName)
	if err != nil {
		outcome.Message = err.Error()
		return outcome
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		outcome.Message = err.Error()
		return outcome
	}
	auditEvents(s.logger, user)

	outcome.Created = true
	return outcome
}

// recomputeAllowLists refreshes the account's stored lists from the
// hierarchy. Accounts without an own level keep no lists of their own.
func (s *UserService) recomputeAllowLists(ctx context.Context, user *identity.User) error {
	if user.ScopeLevel == "" || user.ScopeLevel.IsUnrestricted() {
		user.SetAllowLists(identity.AllowLists{})
		return nil
	}
	lists, err := s.scopes.ResolveAllowLists(ctx, user.ScopeLookupEmail(), user.ScopeLevel)
	if err != nil {
		return err
	}
	user.SetAllowLists(lists)
	return nil
}

func (s *UserService) ensureRoleExists(ctx context.Context, roleName string) error {
	if roleName == "" {
		return nil
	}
	exists, err := s.roleRepo.ExistsByName(ctx, roleName)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("ROLE_NOT_FOUND",
			fmt.Sprintf("role %q does not exist", roleName))
	}
	return nil
}
