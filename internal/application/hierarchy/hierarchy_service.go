package hierarchy

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/hierarchy"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/importer"
)

// HierarchyService owns the employee list and the lookup index built
// from it. The index is rebuilt on upload and lazily reloaded from the
// latest snapshot after a restart.
type HierarchyService struct {
	snapshotRepo      hierarchy.SnapshotRepository
	excludedFunctions []string
	logger            *zap.Logger

	mu    sync.RWMutex
	index *hierarchy.Index
}

// NewHierarchyService creates a new hierarchy service.
func NewHierarchyService(
	snapshotRepo hierarchy.SnapshotRepository,
	excludedFunctions []string,
	logger *zap.Logger,
) *HierarchyService {
	return &HierarchyService{
		snapshotRepo:      snapshotRepo,
		excludedFunctions: excludedFunctions,
		logger:            logger,
	}
}

// UploadEmployeeList parses a workbook, stores it as the new snapshot
// and swaps in a freshly built index.
func (s *HierarchyService) UploadEmployeeList(ctx context.Context, input UploadInput, r io.Reader) (*UploadResult, error) {
	rows, err := importer.ParseEmployeeList(r)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_WORKBOOK", "Workbook cannot be read", err)
	}

	snap, err := hierarchy.NewSnapshot(input.FileName, input.UploadedBy, rows)
	if err != nil {
		return nil, err
	}

	if err := s.snapshotRepo.Save(ctx, snap); err != nil {
		return nil, err
	}

	idx := snap.BuildIndex()
	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger.Info("Employee list uploaded",
		zap.String("file", snap.FileName),
		zap.Int("rows", snap.RowCount()),
		zap.Int("indexed", idx.Size()))

	return &UploadResult{
		Snapshot:  SnapshotInfoFromDomain(snap),
		Employees: snap.RowCount(),
		Indexed:   idx.Size(),
	}, nil
}

// ListSnapshots returns upload metadata, newest first.
func (s *HierarchyService) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	snaps, err := s.snapshotRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, SnapshotInfoFromDomain(snap))
	}
	return infos, nil
}

// DeleteSnapshot removes an upload. Deleting the latest snapshot drops
// the cached index so the next read rebuilds from whatever remains.
func (s *HierarchyService) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	if err := s.snapshotRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()

	s.logger.Info("Snapshot deleted", zap.String("snapshot_id", id.String()))
	return nil
}

// Index returns the current lookup index, rebuilding it from the
// latest stored snapshot when the cache is cold. An empty store yields
// an empty index, not an error.
func (s *HierarchyService) Index(ctx context.Context) (*hierarchy.Index, error) {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	snap, err := s.snapshotRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return hierarchy.BuildIndex(nil), nil
		}
		return nil, err
	}

	idx = snap.BuildIndex()
	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger.Info("Hierarchy index rebuilt",
		zap.String("file", snap.FileName),
		zap.Int("indexed", idx.Size()))
	return idx, nil
}

// LookupEmployee returns the indexed record for an email.
func (s *HierarchyService) LookupEmployee(ctx context.Context, email string) (*EmployeeInfo, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := idx.Lookup(email)
	if !ok {
		return nil, shared.ErrNotFound
	}
	info := EmployeeInfoFromDomain(rec)
	return &info, nil
}

// ListEmployees returns every indexed employee sorted by email.
func (s *HierarchyService) ListEmployees(ctx context.Context) ([]EmployeeInfo, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	all := idx.All()
	infos := make([]EmployeeInfo, 0, len(all))
	for _, rec := range all {
		infos = append(infos, EmployeeInfoFromDomain(rec))
	}
	return infos, nil
}

// ScopeOptions returns the company, function and department choices
// offered when editing a role's allow-lists.
func (s *HierarchyService) ScopeOptions(ctx context.Context) (hierarchy.ScopeOptions, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return hierarchy.ScopeOptions{}, err
	}
	return idx.Options(s.excludedFunctions), nil
}

// ScopeOptionsFor narrows the picker options to what the caller's
// effective scope may see. An unrestricted scope gets the full feed.
func (s *HierarchyService) ScopeOptionsFor(ctx context.Context, scope identity.EffectiveScope) (hierarchy.ScopeOptions, error) {
	opts, err := s.ScopeOptions(ctx)
	if err != nil {
		return hierarchy.ScopeOptions{}, err
	}
	return opts.Restrict(scope), nil
}

// ResolveAllowLists derives the allow-lists an employee gets at a
// visibility level from the current hierarchy index.
func (s *HierarchyService) ResolveAllowLists(ctx context.Context, employeeEmail string, level identity.ScopeLevel) (identity.AllowLists, error) {
	if level.IsUnrestricted() {
		return identity.AllowLists{}, nil
	}
	idx, err := s.Index(ctx)
	if err != nil {
		return identity.AllowLists{}, err
	}
	return hierarchy.ResolveScope(idx, employeeEmail, level), nil
}

// EffectiveScopeFor resolves the data scope of an account. Admins see
// everything. Hand-edited account lists win over anything
// role-derived; an account-level scope level resolves from the org
// tree before the role's lists or level apply.
func (s *HierarchyService) EffectiveScopeFor(ctx context.Context, user *identity.User, role *identity.Role) (identity.EffectiveScope, error) {
	if role.Kind == identity.RoleKindAdmin {
		return identity.UnrestrictedScope(), nil
	}

	if !user.AllowLists.IsEmpty() {
		return identity.RestrictedScope(user.AllowLists), nil
	}

	level := role.EffectiveLevel()
	if user.ScopeLevel != "" {
		level = user.ScopeLevel
	} else if !role.AllowLists.IsEmpty() {
		return identity.RestrictedScope(role.AllowLists), nil
	}

	if level.IsUnrestricted() {
		return identity.UnrestrictedScope(), nil
	}

	idx, err := s.Index(ctx)
	if err != nil {
		return identity.EffectiveScope{}, err
	}

	lists := hierarchy.ResolveScope(idx, user.ScopeLookupEmail(), level)
	if lists.IsEmpty() {
		// Emails missing from the employee list resolve to no
		// restrictions at all. Surfaced in logs because it widens
		// visibility silently.
		s.logger.Warn("Scope resolution found no match, leaving scope open",
			zap.String("email", user.ScopeLookupEmail()),
			zap.String("level", string(level)))
		return identity.UnrestrictedScope(), nil
	}
	return identity.RestrictedScope(lists), nil
}
