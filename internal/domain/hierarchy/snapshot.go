package hierarchy

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
)

// Snapshot is one uploaded employee list. Uploads replace each other
// wholesale; readers always consult the latest snapshot, so there is
// no merging across uploads.
type Snapshot struct {
	shared.BaseAggregateRoot
	FileName   string
	UploadedBy string
	// Rows is the stored row total. Listings load it without the
	// Employees payload.
	Rows      int
	Employees []Employee
}

// NewSnapshot creates a snapshot from parsed rows. Rows without an
// email are kept for auditing; the index skips them at build time.
func NewSnapshot(fileName, uploadedBy string, rows []Employee) (*Snapshot, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_SNAPSHOT", "snapshot file name cannot be empty")
	}

	employees := make([]Employee, 0, len(rows))
	for _, row := range rows {
		rec := row.Normalize()
		rec.SourceFile = fileName
		employees = append(employees, rec)
	}

	snap := &Snapshot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FileName:          fileName,
		UploadedBy:        identity.NormalizeEmail(uploadedBy),
		Rows:              len(employees),
		Employees:         employees,
	}
	snap.AddDomainEvent(NewSnapshotUploadedEvent(snap))
	return snap, nil
}

// RowCount returns the stored row total.
func (s *Snapshot) RowCount() int {
	if len(s.Employees) > 0 {
		return len(s.Employees)
	}
	return s.Rows
}

// BuildIndex builds the lookup index over this snapshot's rows.
func (s *Snapshot) BuildIndex() *Index {
	return BuildIndex(s.Employees)
}

// SnapshotUploadedEvent fires when a new employee list replaces the
// previous one.
type SnapshotUploadedEvent struct {
	shared.BaseDomainEvent
	FileName string `json:"file_name"`
	RowCount int    `json:"row_count"`
}

func NewSnapshotUploadedEvent(snap *Snapshot) SnapshotUploadedEvent {
	return SnapshotUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("hierarchy.snapshot.uploaded", snap.ID),
		FileName:        snap.FileName,
		RowCount:        snap.RowCount(),
	}
}

// SnapshotRepository persists employee-list snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	// Latest returns the most recently uploaded snapshot, or
	// shared.ErrNotFound when nothing has been uploaded yet.
	Latest(ctx context.Context) (*Snapshot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	// List returns snapshot metadata without rows, newest first.
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
