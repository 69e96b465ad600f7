package gemini

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a 200 response without the expected
// candidates/parts shape
var ErrMalformedResponse = errors.New("gemini response has no text content")

// APIError represents a non-2xx, non-429 response from the Gemini API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API returned status %d: %s", e.StatusCode, e.Body)
}

// RateLimitError indicates the backoff budget was exhausted on consecutive
// 429 responses. Body holds the last response body.
type RateLimitError struct {
	Attempts int
	Body     string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("gemini rate limit exceeded after %d attempts", e.Attempts)
}
