package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workforce/backend/internal/domain/hierarchy"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/persistence/models"
)

// GormSnapshotRepository implements hierarchy.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save stores the snapshot header and all of its rows in one transaction.
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *hierarchy.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := models.SnapshotModel{
			FileName:   snapshot.FileName,
			UploadedBy: snapshot.UploadedBy,
			RowCount:   snapshot.RowCount(),
		}
		header.FromDomainAggregateRoot(snapshot.BaseAggregateRoot)
		if err := tx.Save(&header).Error; err != nil {
			return err
		}

		// Replace rows wholesale on re-save.
		if err := tx.Delete(&models.EmployeeRowModel{}, "snapshot_id = ?", snapshot.ID).Error; err != nil {
			return err
		}
		if len(snapshot.Employees) == 0 {
			return nil
		}

		rows := make([]models.EmployeeRowModel, len(snapshot.Employees))
		for i, emp := range snapshot.Employees {
			rows[i].FromDomain(snapshot.ID, emp)
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// Latest returns the most recently uploaded snapshot with its rows.
func (r *GormSnapshotRepository) Latest(ctx context.Context) (*hierarchy.Snapshot, error) {
	var header models.SnapshotModel
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.load(ctx, &header)
}

// FindByID returns the snapshot with the given ID, rows included.
func (r *GormSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*hierarchy.Snapshot, error) {
	var header models.SnapshotModel
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.load(ctx, &header)
}

// List returns snapshot headers without rows, newest first.
func (r *GormSnapshotRepository) List(ctx context.Context) ([]*hierarchy.Snapshot, error) {
	var headers []models.SnapshotModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&headers).Error; err != nil {
		return nil, err
	}
	snapshots := make([]*hierarchy.Snapshot, 0, len(headers))
	for i := range headers {
		snapshots = append(snapshots, toSnapshot(&headers[i], nil))
	}
	return snapshots, nil
}

// Delete removes a snapshot and its rows.
func (r *GormSnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.EmployeeRowModel{}, "snapshot_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.SnapshotModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormSnapshotRepository) load(ctx context.Context, header *models.SnapshotModel) (*hierarchy.Snapshot, error) {
	var rows []models.EmployeeRowModel
	err := r.db.WithContext(ctx).
		Where("snapshot_id = ?", header.ID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	employees := make([]hierarchy.Employee, len(rows))
	for i := range rows {
		employees[i] = rows[i].ToDomain()
	}
	return toSnapshot(header, employees), nil
}

func toSnapshot(header *models.SnapshotModel, employees []hierarchy.Employee) *hierarchy.Snapshot {
	return &hierarchy.Snapshot{
		BaseAggregateRoot: header.ToDomainAggregateRoot(),
		FileName:          header.FileName,
		UploadedBy:        header.UploadedBy,
		Rows:              header.RowCount,
		Employees:         employees,
	}
}
