package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/models"
	"github.com/ateliersoft/studio-scheduler/internal/snapshot"
)

type SnapshotGormRepository struct {
	db *gorm.DB
}

func NewSnapshotGormRepository(db *gorm.DB) *SnapshotGormRepository {
	return &SnapshotGormRepository{db: db}
}

func (r *SnapshotGormRepository) DumpBusiness(
	ctx context.Context,
	businessID uint,
) (*snapshot.Dump, error) {

	tx := r.db.WithContext(ctx)
	dump := &snapshot.Dump{}

	if err := tx.First(&dump.Business, businessID).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessID).
		Find(&dump.Services).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessID).
		Find(&dump.Clients).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessID).
		Preload("Clients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&dump.Appointments).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessID).
		Find(&dump.Expenses).Error; err != nil {
		return nil, err
	}

	return dump, nil
}

func (r *SnapshotGormRepository) SaveSnapshot(
	ctx context.Context,
	s *models.Snapshot,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SnapshotGormRepository) ListSnapshots(
	ctx context.Context,
	businessID uint,
) ([]models.Snapshot, error) {

	var rows []models.Snapshot
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SnapshotGormRepository) GetSnapshot(
	ctx context.Context,
	businessID uint,
	key string,
) (*models.Snapshot, error) {

	var row models.Snapshot
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND key = ?", businessID, key).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

var _ snapshot.Repository = (*SnapshotGormRepository)(nil)
