package services

import (
	"boba-atlas/importer/internal/models/dtos"
	gormModels "boba-atlas/importer/internal/models/gorm"
)

// MapBusiness converts a search result into a bubble_tea row.
// ok is false when the business lies outside region and must not be stored.
func MapBusiness(business dtos.SearchBusiness, region string) (row *gormModels.BubbleTea, ok bool) {
	location := business.Location
	if location == nil {
		location = &dtos.BusinessLocation{}
	}

	// Border postal codes return matches from neighbouring regions
	if location.State == nil || *location.State != region {
		return nil, false
	}

	return &gormModels.BubbleTea{
		ID:          business.ID,
		Alias:       business.Alias,
		Name:        business.Name,
		Country:     nullIfEmpty(location.Country),
		Address1:    nullIfEmpty(location.Address1),
		Address2:    nullIfEmpty(location.Address2),
		Address3:    nullIfEmpty(location.Address3),
		City:        nullIfEmpty(location.City),
		State:       nullIfEmpty(location.State),
		ZipCode:     nullIfEmpty(location.ZipCode),
		Phone:       nullIfEmpty(&business.Phone),
		Latitude:    business.Coordinates.Latitude,
		Longitude:   business.Coordinates.Longitude,
		Rating:      business.Rating,
		ReviewCount: business.ReviewCount,
		URL:         business.URL,
	}, true
}

// MapHours copies open intervals into hours rows verbatim, one row per interval.
// Day and clock values are not validated.
func MapHours(businessID string, open []dtos.OpenInterval) []gormModels.Hours {
	rows := make([]gormModels.Hours, 0, len(open))
	for _, interval := range open {
		rows = append(rows, gormModels.Hours{
			BubbleTeaID: businessID,
			Day:         interval.Day,
			Start:       interval.Start,
			End:         interval.End,
			IsOvernight: interval.IsOvernight,
		})
	}
	return rows
}

func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
