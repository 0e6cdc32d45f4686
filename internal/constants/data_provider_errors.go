package constants

// Search API Error Codes
// These constants tag every failure the API client can report

// Transport and HTTP errors
const (
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
)

// Payload errors
const (
	ErrCodeDecodeError   = "DECODE_ERROR"
	ErrCodeShapeMismatch = "SHAPE_MISMATCH"
	ErrCodeGraphQLError  = "GRAPHQL_ERROR"
)

// Error Messages
// Human-readable messages corresponding to error codes

var DataProviderErrorMessages = map[string]string{
	ErrCodeNetworkError:  "Unable to reach the search API",
	ErrCodeInvalidAPIKey: "The search API key is invalid or has been revoked",
	ErrCodeRateLimited:   "The search API rate limit was exceeded",
	ErrCodeUpstreamError: "The search API returned an unexpected status",

	ErrCodeDecodeError:   "The search API response is not valid JSON",
	ErrCodeShapeMismatch: "The search API response is missing expected fields",
	ErrCodeGraphQLError:  "The search API rejected the query",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := DataProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
