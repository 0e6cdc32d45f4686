package providers

import (
	"context"
	"errors"
	"fmt"

	"boba-atlas/importer/internal/models/dtos"
)

// BusinessProvider defines the interface for the external business search API
type BusinessProvider interface {
	// SearchBusinesses runs one business search around a postal code of a region
	SearchBusinesses(ctx context.Context, params SearchParams) ([]dtos.SearchBusiness, error)

	// FetchHours fetches the regular open intervals of one business
	FetchHours(ctx context.Context, businessID string) ([]dtos.OpenInterval, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string
}

// SearchParams are the per-call values of a business search
type SearchParams struct {
	Category   string // Upstream category alias, e.g. bubbletea
	Region     string // Region code, e.g. CA
	PostalCode string // Postal code searched around
	Limit      int    // Max results in the single page requested
	SortBy     string // rating, review_count, distance or best_match
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the provider error code carried by err, or "" when err is not a ProviderError
func ErrorCode(err error) string {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code
	}
	return ""
}
