package repositories

import (
	"context"
	"fmt"

	"boba-atlas/importer/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Batch is every row derived from one postal code's search response
type Batch struct {
	Businesses []gorm.BubbleTea
	Hours      []gorm.Hours
}

// BubbleTeaRepo handles bubble_tea and hours table operations
type BubbleTeaRepo struct {
	db *gormlib.DB
}

// NewBubbleTeaRepo creates a new bubble tea repository
func NewBubbleTeaRepo(db *gormlib.DB) *BubbleTeaRepo {
	return &BubbleTeaRepo{db: db}
}

// UpsertBusiness inserts or updates a shop keyed on its id
// ON CONFLICT (id) DO UPDATE, leaving insert_dt untouched
func (r *BubbleTeaRepo) UpsertBusiness(ctx context.Context, business *gorm.BubbleTea) error {
	return upsertBusiness(r.db.WithContext(ctx), business)
}

// UpsertHours inserts or updates opening hours keyed on (bubble_tea_id, day).
// Rows are written one at a time so a repeated day in the input ends with the last interval.
func (r *BubbleTeaRepo) UpsertHours(ctx context.Context, hours []gorm.Hours) error {
	return upsertHours(r.db.WithContext(ctx), hours)
}

// SaveBatch writes one postal code's businesses and hours in a single transaction.
// Businesses go first so every hours row has its parent.
func (r *BubbleTeaRepo) SaveBatch(ctx context.Context, batch *Batch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		for i := range batch.Businesses {
			if err := upsertBusiness(tx, &batch.Businesses[i]); err != nil {
				return err
			}
		}
		return upsertHours(tx, batch.Hours)
	})
}

// FindByID finds a shop by id
func (r *BubbleTeaRepo) FindByID(ctx context.Context, id string) (*gorm.BubbleTea, error) {
	var business gorm.BubbleTea

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&business).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &business, nil
}

// GetHours returns the hours rows of a shop ordered by day
func (r *BubbleTeaRepo) GetHours(ctx context.Context, id string) ([]gorm.Hours, error) {
	var hours []gorm.Hours

	err := r.db.WithContext(ctx).
		Where("bubble_tea_id = ?", id).
		Order("day ASC").
		Find(&hours).Error

	if err != nil {
		return nil, err
	}

	return hours, nil
}

// Count returns total number of shops
func (r *BubbleTeaRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.BubbleTea{}).Count(&count).Error
	return count, err
}

func upsertBusiness(db *gormlib.DB, business *gorm.BubbleTea) error {
	err := db.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(gorm.BubbleTeaUpsertColumns),
		}).
		Create(business).Error
	if err != nil {
		return fmt.Errorf("failed to upsert bubble tea %s: %w", business.ID, err)
	}
	return nil
}

func upsertHours(db *gormlib.DB, hours []gorm.Hours) error {
	for i := range hours {
		err := db.
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "bubble_tea_id"},
					{Name: "day"},
				},
				DoUpdates: clause.AssignmentColumns(gorm.HoursUpsertColumns),
			}).
			Create(&hours[i]).Error
		if err != nil {
			return fmt.Errorf("failed to upsert hours %s/%d: %w", hours[i].BubbleTeaID, hours[i].Day, err)
		}
	}
	return nil
}
