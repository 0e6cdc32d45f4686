package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"boba-atlas/importer/internal/constants"
	"boba-atlas/importer/internal/models/dtos"

	"github.com/patrickmn/go-cache"
)

// YelpProvider implements BusinessProvider over the Yelp GraphQL endpoint
type YelpProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	hoursCache *cache.Cache
}

// NewYelpProvider creates a provider. A zero timeout keeps the transport defaults.
func NewYelpProvider(baseURL, apiKey string, timeout time.Duration) *YelpProvider {
	return &YelpProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHoursCache keeps fetched hours for ttl so a business seen around several
// postal codes is looked up once per run
func (p *YelpProvider) WithHoursCache(ttl time.Duration) *YelpProvider {
	if ttl > 0 {
		p.hoursCache = cache.New(ttl, 2*ttl)
	}
	return p
}

// GetProviderType returns the provider type identifier
func (p *YelpProvider) GetProviderType() string {
	return "yelp_graphql"
}

// SearchBusinesses runs a single-page business search around a postal code
func (p *YelpProvider) SearchBusinesses(ctx context.Context, params SearchParams) ([]dtos.SearchBusiness, error) {
	var resp dtos.SearchResponse
	if err := p.doPost(ctx, BuildSearchRequest(params), &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil || resp.Data.Search == nil {
		return nil, shapeError(resp.Errors, "data.search")
	}

	return resp.Data.Search.Business, nil
}

// FetchHours returns the open intervals of the first hours block of a business
func (p *YelpProvider) FetchHours(ctx context.Context, businessID string) ([]dtos.OpenInterval, error) {
	if p.hoursCache != nil {
		if cached, found := p.hoursCache.Get(businessID); found {
			return cached.([]dtos.OpenInterval), nil
		}
	}

	var resp dtos.HoursResponse
	if err := p.doPost(ctx, BuildHoursRequest(businessID), &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil || resp.Data.Business == nil {
		return nil, shapeError(resp.Errors, "data.business")
	}
	if len(resp.Data.Business.Hours) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeShapeMismatch,
			Message: constants.GetErrorMessage(constants.ErrCodeShapeMismatch),
			Details: "data.business.hours is empty",
		}
	}

	open := resp.Data.Business.Hours[0].Open
	if p.hoursCache != nil {
		p.hoursCache.SetDefault(businessID, open)
	}
	return open, nil
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// doPost posts a GraphQL request with bearer authentication and decodes the JSON body
func (p *YelpProvider) doPost(ctx context.Context, payload dtos.GraphQLRequest, result interface{}) error {
	// Validate API key
	if p.APIKey == "" {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "YELP_API_KEY is not set",
		}
	}

	// Serialize payload
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeDecodeError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	// Build request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	// Set headers
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// Handle HTTP errors
	if err := p.handleHTTPError(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     err,
		}
	}

	// Parse response
	if err := json.Unmarshal(body, result); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeDecodeError,
			Message: constants.GetErrorMessage(constants.ErrCodeDecodeError),
			Details: truncate(string(body), 256),
			Err:     err,
		}
	}

	return nil
}

// handleHTTPError converts HTTP errors to ProviderError
func (p *YelpProvider) handleHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidAPIKey),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
			Details: string(body),
		}
	}
}

// shapeError reports a response without the expected data, preferring GraphQL errors when present
func shapeError(gqlErrors []dtos.GraphQLError, missing string) error {
	if len(gqlErrors) > 0 {
		messages := make([]string, 0, len(gqlErrors))
		for _, e := range gqlErrors {
			messages = append(messages, e.Message)
		}
		return &ProviderError{
			Code:    constants.ErrCodeGraphQLError,
			Message: constants.GetErrorMessage(constants.ErrCodeGraphQLError),
			Details: strings.Join(messages, "; "),
		}
	}

	return &ProviderError{
		Code:    constants.ErrCodeShapeMismatch,
		Message: constants.GetErrorMessage(constants.ErrCodeShapeMismatch),
		Details: missing + " is missing",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
