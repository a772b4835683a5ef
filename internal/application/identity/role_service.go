package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
)

// RoleService handles role administration
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// SeedBuiltinRoles ensures the built-in admin and user roles exist.
// Existing rows are left untouched so operator edits survive restarts.
func (s *RoleService) SeedBuiltinRoles(ctx context.Context) error {
	seeds := []func() (*identity.Role, error){
		identity.NewAdminRole,
		identity.NewUserRole,
	}
	for _, seed := range seeds {
		role, err := seed()
		if err != nil {
			return err
		}
		exists, err := s.roleRepo.ExistsByName(ctx, role.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.roleRepo.Save(ctx, role); err != nil {
			return err
		}
		auditEvents(s.logger, role)
		s.logger.Info("Seeded built-in role", zap.String("role", role.Name))
	}
	return nil
}

// CreateRole creates a new role. Reserved names are allowed so that
// level roles like "N-1" can be defined by operators.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*RoleInfo, error) {
	exists, err := s.roleRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ROLE_EXISTS",
			fmt.Sprintf("role %q already exists", input.Name))
	}

	level, err := identity.ParseScopeLevel(input.ScopeLevel)
	if err != nil {
		return nil, err
	}

	role, err := identity.NewRole(input.Name, input.Description, level, input.AllowLists, input.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	auditEvents(s.logger, role)

	s.logger.Info("Role created",
		zap.String("role", role.Name),
		zap.String("kind", string(role.Kind)),
		zap.String("scope_level", string(role.ScopeLevel)))

	info := RoleInfoFromDomain(role, 0)
	return &info, nil
}

// GetRole returns one role with its assigned-user count.
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (*RoleInfo, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.userRepo.CountByRoleName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	info := RoleInfoFromDomain(role, count)
	return &info, nil
}

// GetRoleByName returns one role looked up by name.
func (s *RoleService) GetRoleByName(ctx context.Context, name string) (*RoleInfo, error) {
	role, err := s.roleRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	count, err := s.userRepo.CountByRoleName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	info := RoleInfoFromDomain(role, count)
	return &info, nil
}

// ListRoles returns all roles with their assigned-user counts.
func (s *RoleService) ListRoles(ctx context.Context) ([]RoleInfo, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]RoleInfo, 0, len(roles))
	for _, role := range roles {
		count, err := s.userRepo.CountByRoleName(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, RoleInfoFromDomain(role, count))
	}
	return infos, nil
}

// UpdateRole applies partial changes to a role. Renames that touch
// reserved names are rejected by the aggregate.
func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*RoleInfo, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousName := role.Name

	if input.Name != nil && *input.Name != role.Name {
		exists, err := s.roleRepo.ExistsByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ROLE_EXISTS",
				fmt.Sprintf("role %q already exists", *input.Name))
		}
		if err := role.Rename(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		role.UpdateDescription(*input.Description)
	}

	if input.ScopeLevel != nil || input.AllowLists != nil {
		level := role.ScopeLevel
		if input.ScopeLevel != nil {
			level, err = identity.ParseScopeLevel(*input.ScopeLevel)
			if err != nil {
				return nil, err
			}
		}
		lists := role.AllowLists
		if input.AllowLists != nil {
			lists = *input.AllowLists
		}
		if err := role.UpdateScope(level, lists); err != nil {
			return nil, err
		}
	}

	if input.Permissions != nil {
		if err := role.UpdatePermissions(*input.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	auditEvents(s.logger, role)

	// A rename strands users still pointing at the old name; move them
	// along with the role.
	if previousName != role.Name {
		if err := s.reassignUsers(ctx, previousName, role.Name); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Role updated", zap.String("role", role.Name))

	count, err := s.userRepo.CountByRoleName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	info := RoleInfoFromDomain(role, count)
	return &info, nil
}

// DeleteRole removes a role. Reserved roles and roles still assigned
// to users cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := role.CanDelete(); err != nil {
		return err
	}

	count, err := s.userRepo.CountByRoleName(ctx, role.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("ROLE_IN_USE",
			fmt.Sprintf("role %q is assigned to %d user(s)", role.Name, count))
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Role deleted", zap.String("role", role.Name))
	return nil
}

func (s *RoleService) reassignUsers(ctx context.Context, from, to string) error {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.RoleName != from {
			continue
		}
		if err := user.AssignRole(to); err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
	}
	return nil
}
