package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/persistence/models"
)

// setupRoleTestDB creates an in-memory SQLite database for testing
func setupRoleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.RoleModel{})
	require.NoError(t, err)

	return db
}

func newTestRole(t *testing.T, name string, level identity.ScopeLevel) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(name, "test role", level, identity.AllowLists{}, identity.DefaultUserPermissions())
	require.NoError(t, err)
	return role
}

func TestGormRoleRepository_SaveAndFind(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewGormRoleRepository(db)
	ctx := context.Background()

	role := newTestRole(t, "Regional HR", identity.ScopeFunction)
	role.AllowLists = identity.AllowLists{
		Companies: []string{"Acme Ltd"},
		Functions: []string{"HR"},
	}
	require.NoError(t, repo.Save(ctx, role))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, role.ID)
		require.NoError(t, err)
		assert.Equal(t, role.ID, found.ID)
		assert.Equal(t, "Regional HR", found.Name)
		assert.Equal(t, identity.RoleKindCustom, found.Kind)
		assert.Equal(t, identity.ScopeFunction, found.ScopeLevel)
		assert.Equal(t, []string{"Acme Ltd"}, found.AllowLists.Companies)
	})

	t.Run("finds by name case-insensitively", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "  regional hr ")
		require.NoError(t, err)
		assert.Equal(t, role.ID, found.ID)
	})

	t.Run("round-trips the permission map", func(t *testing.T) {
		found, err := repo.FindByID(ctx, role.ID)
		require.NoError(t, err)

		perm, ok := found.Permissions[identity.ModuleAttendance]
		require.True(t, ok)
		assert.True(t, perm.Enabled)
		assert.True(t, perm.HasFeature(identity.FeatureDashboard))
		assert.False(t, perm.HasFeature(identity.FeatureUpload))
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns not found for unknown name", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormRoleRepository_SaveUpdatesExisting(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewGormRoleRepository(db)
	ctx := context.Background()

	role := newTestRole(t, "Analysts", identity.ScopeDepartment)
	require.NoError(t, repo.Save(ctx, role))

	role.Description = "department analysts"
	require.NoError(t, repo.Save(ctx, role))

	found, err := repo.FindByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "department analysts", found.Description)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormRoleRepository_FindAll(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewGormRoleRepository(db)
	ctx := context.Background()

	admin, err := identity.NewAdminRole()
	require.NoError(t, err)
	user, err := identity.NewUserRole()
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, admin))
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.Save(ctx, newTestRole(t, "N-1", identity.ScopeFunction)))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	names := []string{all[0].Name, all[1].Name, all[2].Name}
	assert.Equal(t, []string{"N-1", "admin", "user"}, names)
}

func TestGormRoleRepository_ExistsByName(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewGormRoleRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestRole(t, "Managers", identity.ScopeFunction)))

	exists, err := repo.ExistsByName(ctx, "MANAGERS")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "ghosts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormRoleRepository_Delete(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewGormRoleRepository(db)
	ctx := context.Background()

	role := newTestRole(t, "Temp", identity.ScopeDepartment)
	require.NoError(t, repo.Save(ctx, role))

	require.NoError(t, repo.Delete(ctx, role.ID))

	_, err := repo.FindByID(ctx, role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
