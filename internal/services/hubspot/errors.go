package hubspot

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPropertiesToUpdate is returned when an update is requested with an
	// empty property map
	ErrNoPropertiesToUpdate = errors.New("no properties to update")

	// ErrMissingClientID is returned when the OAuth client ID is not configured
	ErrMissingClientID = errors.New("hubspot client ID is not configured")

	// ErrMissingClientSecret is returned when the OAuth client secret is not
	// configured
	ErrMissingClientSecret = errors.New("hubspot client secret is not configured")
)

// APIError is a non-2xx response from the HubSpot API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot API error: status %d: %s", e.StatusCode, e.Body)
}

// RefreshError wraps a token refresh failure. Unwrap exposes the cause so
// callers can distinguish missing configuration from a provider rejection.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("hubspot token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
