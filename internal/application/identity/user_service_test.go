package identity

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/auth"
)

func newUserService(userRepo *MockUserRepository, roleRepo *MockRoleRepository) (*UserService, *auth.PasswordHasher) {
	hasher := auth.NewPasswordHasher()
	return NewUserService(userRepo, roleRepo, hasher, new(MockAllowListResolver), "123456", zap.NewNop()), hasher
}

func newUserServiceWithResolver(userRepo *MockUserRepository, roleRepo *MockRoleRepository, scopes *MockAllowListResolver) *UserService {
	hasher := auth.NewPasswordHasher()
	return NewUserService(userRepo, roleRepo, hasher, scopes, "123456", zap.NewNop())
}

// buildUserWorkbook writes rows into an in-memory workbook in the bulk
// upload template layout.
func buildUserWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("creates an account with a hashed password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, hasher := newUserService(userRepo, roleRepo)

		userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)
		roleRepo.On("ExistsByName", mock.Anything, "user").Return(true, nil)

		var saved *identity.User
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.User) }).
			Return(nil)

		info, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:       "new@acme.com",
			DisplayName: "New Person",
			Password:    "welcome1",
			RoleName:    "user",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@acme.com", info.Email)
		require.NotNil(t, saved)
		assert.NotEqual(t, "welcome1", saved.PasswordHash)
		assert.NoError(t, hasher.Verify(saved.PasswordHash, "welcome1"))
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		userRepo.On("ExistsByEmail", mock.Anything, "dup@acme.com").Return(true, nil)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:    "dup@acme.com",
			Password: "welcome1",
		})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "USER_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)
		roleRepo.On("ExistsByName", mock.Anything, "ghost-role").Return(false, nil)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:    "new@acme.com",
			Password: "welcome1",
			RoleName: "ghost-role",
		})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "ROLE_NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:    "not-an-email",
			Password: "welcome1",
		})

		assert.Error(t, err)
	})
}

func TestUserService_CreateUser_Scope(t *testing.T) {
	t.Run("stores hierarchy-derived lists for a scoped account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		scopes := new(MockAllowListResolver)
		service := newUserServiceWithResolver(userRepo, roleRepo, scopes)

		userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)
		roleRepo.On("ExistsByName", mock.Anything, "user").Return(true, nil)
		scopes.On("ResolveAllowLists", mock.Anything, "jane@acme.com", identity.ScopeDepartment).
			Return(identity.AllowLists{Companies: []string{"Acme"}, Departments: []string{"Payroll"}}, nil)

		var saved *identity.User
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.User) }).
			Return(nil)

		info, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:         "new@acme.com",
			DisplayName:   "New Person",
			Password:      "welcome1",
			RoleName:      "user",
			EmployeeEmail: "Jane@Acme.com",
			ScopeLevel:    "N-2",
		})

		require.NoError(t, err)
		assert.Equal(t, "jane@acme.com", info.EmployeeEmail)
		assert.Equal(t, "N-2", info.ScopeLevel)
		require.NotNil(t, saved)
		assert.Equal(t, []string{"Payroll"}, saved.AllowLists.Departments)
		scopes.AssertExpectations(t)
	})

	t.Run("an explicit allow-list suppresses the recompute", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		scopes := new(MockAllowListResolver)
		service := newUserServiceWithResolver(userRepo, roleRepo, scopes)

		userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		lists := identity.AllowLists{Companies: []string{"Acme GmbH"}}
		info, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:      "new@acme.com",
			Password:   "welcome1",
			ScopeLevel: "N-2",
			AllowLists: &lists,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Acme GmbH"}, info.AllowLists.Companies)
		scopes.AssertNotCalled(t, "ResolveAllowLists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed scope levels", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Email:      "new@acme.com",
			Password:   "welcome1",
			ScopeLevel: "N+1",
		})

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "INVALID_SCOPE_LEVEL", domainErr.Code)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("changes role after validating it exists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		user, err := identity.NewUser("jane@acme.com", "Jane", "$2a$10$h", "user")
		require.NoError(t, err)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		roleRepo.On("ExistsByName", mock.Anything, "N-1").Return(true, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		roleName := "N-1"
		info, err := service.UpdateUser(context.Background(), user.ID, UpdateUserInput{RoleName: &roleName})

		require.NoError(t, err)
		assert.Equal(t, "N-1", info.RoleName)
	})

	t.Run("deactivates and reactivates accounts", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		user, err := identity.NewUser("jane@acme.com", "Jane", "$2a$10$h", "user")
		require.NoError(t, err)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		active := false
		info, err := service.UpdateUser(context.Background(), user.ID, UpdateUserInput{Active: &active})
		require.NoError(t, err)
		assert.Equal(t, "inactive", info.Status)

		active = true
		info, err = service.UpdateUser(context.Background(), user.ID, UpdateUserInput{Active: &active})
		require.NoError(t, err)
		assert.Equal(t, "active", info.Status)
	})
}

func TestUserService_UpdateUser_Scope(t *testing.T) {
	t.Run("recomputes stored lists when the level changes", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		scopes := new(MockAllowListResolver)
		service := newUserServiceWithResolver(userRepo, roleRepo, scopes)

		user, err := identity.NewUser("jane@acme.com", "Jane", "$2a$10$h", "user")
		require.NoError(t, err)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)
		scopes.On("ResolveAllowLists", mock.Anything, "jane@acme.com", identity.ScopeFunction).
			Return(identity.AllowLists{Functions: []string{"IT"}}, nil)

		level := "N-1"
		info, err := service.UpdateUser(context.Background(), user.ID, UpdateUserInput{ScopeLevel: &level})

		require.NoError(t, err)
		assert.Equal(t, []string{"IT"}, info.AllowLists.Functions)
		scopes.AssertExpectations(t)
	})

	t.Run("a hand-edited list wins over the recompute", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		scopes := new(MockAllowListResolver)
		service := newUserServiceWithResolver(userRepo, roleRepo, scopes)

		user, err := identity.NewUser("jane@acme.com", "Jane", "$2a$10$h", "user")
		require.NoError(t, err)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		level := "N-2"
		lists := identity.AllowLists{Departments: []string{"Payroll"}}
		info, err := service.UpdateUser(context.Background(), user.ID, UpdateUserInput{
			ScopeLevel: &level,
			AllowLists: &lists,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Payroll"}, info.AllowLists.Departments)
		scopes.AssertNotCalled(t, "ResolveAllowLists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("clearing the level drops the stored lists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		scopes := new(MockAllowListResolver)
		service := newUserServiceWithResolver(userRepo, roleRepo, scopes)

		user, err := identity.NewUser("jane@acme.com", "Jane", "$2a$10$h", "user")
		require.NoError(t, err)
		require.NoError(t, user.SetScopeLevel("N-2"))
		user.SetAllowLists(identity.AllowLists{Departments: []string{"Payroll"}})

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		level := ""
		info, err := service.UpdateUser(context.Background(), user.ID, UpdateUserInput{ScopeLevel: &level})

		require.NoError(t, err)
		assert.Empty(t, info.ScopeLevel)
		assert.True(t, user.AllowLists.IsEmpty())
		scopes.AssertNotCalled(t, "ResolveAllowLists", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_AuditLog(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	userRepo := new(MockUserRepository)
	roleRepo := new(MockRoleRepository)
	hasher := auth.NewPasswordHasher()
	service := NewUserService(userRepo, roleRepo, hasher, new(MockAllowListResolver), "123456", zap.New(core))

	userRepo.On("ExistsByEmail", mock.Anything, "new@acme.com").Return(false, nil)

	var saved *identity.User
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.User) }).
		Return(nil)

	_, err := service.CreateUser(context.Background(), CreateUserInput{
		Email:    "new@acme.com",
		Password: "welcome1",
	})
	require.NoError(t, err)

	audits := recorded.FilterMessage("Audit event").All()
	require.NotEmpty(t, audits)
	fields := audits[0].ContextMap()
	assert.Equal(t, "identity.user.created", fields["event"])

	// Saved events are drained, not re-published on the next mutation.
	require.NotNil(t, saved)
	assert.Empty(t, saved.GetDomainEvents())
}

func TestUserService_BulkUpload(t *testing.T) {
	t.Run("creates accounts and skips duplicates", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, hasher := newUserService(userRepo, roleRepo)

		r := buildUserWorkbook(t, [][]any{
			{"Employee Name", "Designation", "Function", "Email (Official)", "Username", "Role", "Password"},
			{"Ana New", "Analyst", "Finance", "ana@acme.com", "", "", ""},
			{"Bob Dup", "Analyst", "Finance", "bob@acme.com", "", "user", "custom-pass"},
			{"Cara Bad", "Analyst", "Finance", "not-an-email", "", "", ""},
		})

		userRepo.On("ExistsByEmail", mock.Anything, "ana@acme.com").Return(false, nil)
		userRepo.On("ExistsByEmail", mock.Anything, "bob@acme.com").Return(true, nil)
		roleRepo.On("ExistsByName", mock.Anything, "user").Return(true, nil)

		var saved *identity.User
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.User) }).
			Return(nil)

		result, err := service.BulkUpload(context.Background(), r)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 2, result.Skipped)
		require.NotNil(t, saved)
		assert.Equal(t, "ana@acme.com", saved.Email)
		assert.Equal(t, "user", saved.RoleName)

		// Blank password column falls back to the configured default.
		assert.NoError(t, hasher.Verify(saved.PasswordHash, "123456"))
	})

	t.Run("rejects workbooks without an email column", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service, _ := newUserService(userRepo, roleRepo)

		r := buildUserWorkbook(t, [][]any{
			{"Employee Name", "Role"},
			{"Ana", "user"},
		})

		_, err := service.BulkUpload(context.Background(), r)

		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, "INVALID_WORKBOOK", domainErr.Code)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	roleRepo := new(MockRoleRepository)
	service, _ := newUserService(userRepo, roleRepo)

	user, err := identity.NewUser("gone@acme.com", "Gone", "$2a$10$h", "user")
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Delete", mock.Anything, user.ID).Return(nil)

	require.NoError(t, service.DeleteUser(context.Background(), user.ID))
	userRepo.AssertExpectations(t)
}
