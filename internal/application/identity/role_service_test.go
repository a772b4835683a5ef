package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
)

func newRoleService(roleRepo *MockRoleRepository, userRepo *MockUserRepository) *RoleService {
	return NewRoleService(roleRepo, userRepo, zap.NewNop())
}

func mustRole(t *testing.T, name string, level identity.ScopeLevel) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(name, "", level, identity.AllowLists{}, identity.DefaultUserPermissions())
	require.NoError(t, err)
	return role
}

func TestRoleService_SeedBuiltinRoles(t *testing.T) {
	t.Run("creates missing built-in roles", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "admin").Return(false, nil)
		roleRepo.On("ExistsByName", mock.Anything, "user").Return(false, nil)
		roleRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Role")).Return(nil).Twice()

		err := service.SeedBuiltinRoles(context.Background())

		assert.NoError(t, err)
		roleRepo.AssertExpectations(t)
	})

	t.Run("leaves existing roles untouched", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "admin").Return(true, nil)
		roleRepo.On("ExistsByName", mock.Anything, "user").Return(true, nil)

		err := service.SeedBuiltinRoles(context.Background())

		assert.NoError(t, err)
		roleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRoleService_CreateRole(t *testing.T) {
	t.Run("creates a custom role", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "Regional HR").Return(false, nil)
		roleRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Role")).Return(nil)

		info, err := service.CreateRole(context.Background(), CreateRoleInput{
			Name:       "Regional HR",
			ScopeLevel: "N-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "Regional HR", info.Name)
		assert.Equal(t, "custom", info.Kind)
		assert.Equal(t, "N-1", info.ScopeLevel)
	})

	t.Run("allows creating level roles by reserved name", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "N-1").Return(false, nil)
		roleRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Role")).Return(nil)

		info, err := service.CreateRole(context.Background(), CreateRoleInput{
			Name:       "N-1",
			ScopeLevel: "N-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "level", info.Kind)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "Managers").Return(true, nil)

		_, err := service.CreateRole(context.Background(), CreateRoleInput{
			Name:       "Managers",
			ScopeLevel: "N-2",
		})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "ROLE_EXISTS", domainErr.Code)
	})

	t.Run("rejects malformed scope levels", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		roleRepo.On("ExistsByName", mock.Anything, "Broken").Return(false, nil)

		_, err := service.CreateRole(context.Background(), CreateRoleInput{
			Name:       "Broken",
			ScopeLevel: "N-0",
		})

		assert.Error(t, err)
	})
}

func TestRoleService_UpdateRole(t *testing.T) {
	t.Run("renames a custom role and reassigns users", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		role := mustRole(t, "Old Name", identity.ScopeDepartment)
		holder, err := identity.NewUser("holder@acme.com", "Holder", "$2a$10$h", "Old Name")
		require.NoError(t, err)
		bystander, err := identity.NewUser("other@acme.com", "Other", "$2a$10$h", "user")
		require.NoError(t, err)

		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		roleRepo.On("ExistsByName", mock.Anything, "New Name").Return(false, nil)
		roleRepo.On("Save", mock.Anything, role).Return(nil)
		userRepo.On("FindAll", mock.Anything).Return([]*identity.User{holder, bystander}, nil)
		userRepo.On("Save", mock.Anything, holder).Return(nil)
		userRepo.On("CountByRoleName", mock.Anything, "New Name").Return(int64(1), nil)

		newName := "New Name"
		info, err := service.UpdateRole(context.Background(), role.ID, UpdateRoleInput{Name: &newName})

		require.NoError(t, err)
		assert.Equal(t, "New Name", info.Name)
		assert.Equal(t, "New Name", holder.RoleName)
		assert.Equal(t, "user", bystander.RoleName)
		userRepo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("rejects renaming reserved roles", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		admin, err := identity.NewAdminRole()
		require.NoError(t, err)
		roleRepo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
		roleRepo.On("ExistsByName", mock.Anything, "superadmin").Return(false, nil)

		newName := "superadmin"
		_, err = service.UpdateRole(context.Background(), admin.ID, UpdateRoleInput{Name: &newName})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "RESERVED_ROLE", domainErr.Code)
	})

	t.Run("rejects renaming onto a reserved name", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		role := mustRole(t, "Analysts", identity.ScopeDepartment)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		roleRepo.On("ExistsByName", mock.Anything, "N-3").Return(false, nil)

		newName := "N-3"
		_, err := service.UpdateRole(context.Background(), role.ID, UpdateRoleInput{Name: &newName})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "RESERVED_ROLE", domainErr.Code)
	})

	t.Run("updates scope and permissions together", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		role := mustRole(t, "Analysts", identity.ScopeDepartment)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		roleRepo.On("Save", mock.Anything, role).Return(nil)
		userRepo.On("CountByRoleName", mock.Anything, "Analysts").Return(int64(0), nil)

		level := "N-1"
		lists := identity.AllowLists{Functions: []string{"Technology"}}
		perms := identity.DefaultAdminPermissions()
		info, err := service.UpdateRole(context.Background(), role.ID, UpdateRoleInput{
			ScopeLevel:  &level,
			AllowLists:  &lists,
			Permissions: &perms,
		})

		require.NoError(t, err)
		assert.Equal(t, "N-1", info.ScopeLevel)
		assert.Equal(t, []string{"Technology"}, info.AllowLists.Functions)
		assert.True(t, info.Permissions[identity.ModuleTeams].Enabled)
	})
}

func TestRoleService_DeleteRole(t *testing.T) {
	t.Run("deletes an unused custom role", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		role := mustRole(t, "Obsolete", identity.ScopeDepartment)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		userRepo.On("CountByRoleName", mock.Anything, "Obsolete").Return(int64(0), nil)
		roleRepo.On("Delete", mock.Anything, role.ID).Return(nil)

		err := service.DeleteRole(context.Background(), role.ID)

		assert.NoError(t, err)
		roleRepo.AssertExpectations(t)
	})

	t.Run("rejects deleting reserved roles", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		level := mustRole(t, "N-1", identity.ScopeFunction)
		roleRepo.On("FindByID", mock.Anything, level.ID).Return(level, nil)

		err := service.DeleteRole(context.Background(), level.ID)

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "RESERVED_ROLE", domainErr.Code)
		roleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("rejects deleting roles still in use", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		userRepo := new(MockUserRepository)
		service := newRoleService(roleRepo, userRepo)

		role := mustRole(t, "Busy", identity.ScopeDepartment)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		userRepo.On("CountByRoleName", mock.Anything, "Busy").Return(int64(3), nil)

		err := service.DeleteRole(context.Background(), role.ID)

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "ROLE_IN_USE", domainErr.Code)
	})
}

func TestRoleService_ListRoles(t *testing.T) {
	roleRepo := new(MockRoleRepository)
	userRepo := new(MockUserRepository)
	service := newRoleService(roleRepo, userRepo)

	admin, err := identity.NewAdminRole()
	require.NoError(t, err)
	custom := mustRole(t, "Analysts", identity.ScopeDepartment)

	roleRepo.On("FindAll", mock.Anything).Return([]*identity.Role{admin, custom}, nil)
	userRepo.On("CountByRoleName", mock.Anything, "admin").Return(int64(1), nil)
	userRepo.On("CountByRoleName", mock.Anything, "Analysts").Return(int64(4), nil)

	infos, err := service.ListRoles(context.Background())

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, int64(1), infos[0].UserCount)
	assert.Equal(t, int64(4), infos[1].UserCount)
}
