package handler

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
)

// memRoleRepository is an in-memory identity.RoleRepository for
// handler tests.
type memRoleRepository struct {
	roles map[uuid.UUID]*identity.Role
}

func newMemRoleRepository(roles ...*identity.Role) *memRoleRepository {
	repo := &memRoleRepository{roles: make(map[uuid.UUID]*identity.Role)}
	for _, r := range roles {
		repo.roles[r.ID] = r
	}
	return repo
}

func (m *memRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	m.roles[role.ID] = role
	return nil
}

func (m *memRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	if role, ok := m.roles[id]; ok {
		return role, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	for _, role := range m.roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRoleRepository) FindAll(ctx context.Context) ([]*identity.Role, error) {
	out := make([]*identity.Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, role)
	}
	return out, nil
}

func (m *memRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := m.FindByName(ctx, name)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

// memUserRepository is an in-memory identity.UserRepository for
// handler tests.
type memUserRepository struct {
	users map[uuid.UUID]*identity.User
}

func newMemUserRepository(users ...*identity.User) *memUserRepository {
	repo := &memUserRepository{users: make(map[uuid.UUID]*identity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *memUserRepository) Save(ctx context.Context, user *identity.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, user := range m.users {
		if user.Email == identity.NormalizeEmail(email) {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	out := make([]*identity.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, user)
	}
	return out, nil
}

func (m *memUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memUserRepository) CountByRoleName(ctx context.Context, roleName string) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.RoleName == roleName {
			count++
		}
	}
	return count, nil
}

func (m *memUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
