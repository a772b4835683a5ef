package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
)

// ScopeResolver derives the analytics visibility of an account from
// its role and the employee hierarchy.
type ScopeResolver interface {
	EffectiveScopeFor(ctx context.Context, user *identity.User, role *identity.Role) (identity.EffectiveScope, error)
}

// AccessService answers permission and scope questions about
// authenticated callers.
type AccessService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	scopes   ScopeResolver
	logger   *zap.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	scopes ScopeResolver,
	logger *zap.Logger,
) *AccessService {
	return &AccessService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		scopes:   scopes,
		logger:   logger,
	}
}

// PermissionsFor resolves a role name to its stored permission map.
func (s *AccessService) PermissionsFor(ctx context.Context, roleName string) (identity.PermissionMap, error) {
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

// CheckAccess evaluates whether a role may use a module and,
// optionally, any of the given features. A role deleted after its
// tokens were issued denies rather than errors.
func (s *AccessService) CheckAccess(ctx context.Context, roleName string, module identity.ModuleID, features ...identity.FeatureID) (identity.AccessDecision, error) {
	actor := identity.Actor{RoleName: roleName}

	if roleName != "" && identity.ClassifyRoleName(roleName) != identity.RoleKindAdmin {
		role, err := s.roleRepo.FindByName(ctx, roleName)
		switch {
		case err == nil:
			actor.Permissions = role.Permissions
		case errors.Is(err, shared.ErrNotFound):
			// Leave the permission map empty; the check denies.
		default:
			return identity.AccessDecision{}, err
		}
	}

	return identity.CheckAccess(actor, identity.AccessRequest{
		Module:   module,
		Features: features,
	}), nil
}

// Profile is the caller's account, role, and resolved scope.
type Profile struct {
	User  UserInfo
	Role  RoleInfo
	Scope identity.EffectiveScope
}

// Profile loads the full picture for an authenticated account.
func (s *AccessService) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindByName(ctx, user.RoleName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "the account's role no longer exists")
		}
		return nil, err
	}

	scope, err := s.scopes.EffectiveScopeFor(ctx, user, role)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:  UserInfoFromDomain(user),
		Role:  RoleInfoFromDomain(role, 0),
		Scope: scope,
	}, nil
}

// ScopeFor resolves the analytics scope of an account. Dashboard
// reads call this on every request so the scope always reflects the
// latest hierarchy upload.
func (s *AccessService) ScopeFor(ctx context.Context, userID uuid.UUID) (identity.EffectiveScope, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return identity.EffectiveScope{}, err
	}

	role, err := s.roleRepo.FindByName(ctx, user.RoleName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.EffectiveScope{}, shared.NewDomainError("ROLE_NOT_FOUND", "the account's role no longer exists")
		}
		return identity.EffectiveScope{}, err
	}

	return s.scopes.EffectiveScopeFor(ctx, user, role)
}
