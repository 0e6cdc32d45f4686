package repositories

import (
	"context"

	"boba-atlas/importer/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ImportRunRepo handles import_run table operations
type ImportRunRepo struct {
	db *gormlib.DB
}

// NewImportRunRepo creates a new import run repository
func NewImportRunRepo(db *gormlib.DB) *ImportRunRepo {
	return &ImportRunRepo{db: db}
}

// RecordRun stores the outcome of one run
func (r *ImportRunRepo) RecordRun(ctx context.Context, run *gorm.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// GetLastRun returns the most recent run of a region, or nil when none exists
func (r *ImportRunRepo) GetLastRun(ctx context.Context, region string) (*gorm.ImportRun, error) {
	var run gorm.ImportRun

	err := r.db.WithContext(ctx).
		Where("region = ?", region).
		Order("finished_at DESC").
		First(&run).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &run, nil
}
