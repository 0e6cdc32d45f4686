package repositories

import (
	"context"

	"boba-atlas/importer/internal/constants"
	"boba-atlas/importer/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ZipCodeRepo reads the postal code reference table
type ZipCodeRepo struct {
	db *sqlx.DB
}

func NewZipCodeRepo(db *sqlx.DB) *ZipCodeRepo {
	return &ZipCodeRepo{db}
}

// ListReferenceLocations returns every distinct postal code of a region in table order
func (r *ZipCodeRepo) ListReferenceLocations(ctx context.Context, region string) ([]entities.ReferenceLocation, error) {
	var locations []entities.ReferenceLocation

	err := r.db.SelectContext(ctx, &locations, r.db.Rebind(constants.ListZipCodesByState), region)
	if err != nil {
		return nil, err
	}

	return locations, nil
}

