package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel      = "gemini-2.0-flash"
	defaultMaxRetries = 3

	// fallback when the 429 carries no usable retry hint
	defaultRetryDelay = 60 * time.Second

	// hard cap on a single backoff sleep
	maxRetryDelay = 300 * time.Second
)

// Client calls the Gemini generateContent API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxRetries int

	// sleep is context-aware and overridable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// NewClient creates a new Gemini API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		sleep:      sleepContext,
	}
}

// Complete sends the prompt to the generateContent endpoint and returns the
// first candidate's text. On 429 it backs off exponentially from the
// provider's retry hint, blocking only the calling goroutine, and gives up
// after maxRetries additional attempts.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	var lastBody string
	maxAttempts := c.maxRetries + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, respBody, retryAfter, err := c.post(ctx, endpoint, body)
		if err != nil {
			return "", fmt.Errorf("executing request: %w", err)
		}

		switch {
		case status == http.StatusOK:
			return extractText(respBody)

		case status == http.StatusTooManyRequests:
			lastBody = string(respBody)
			if attempt == maxAttempts {
				return "", &RateLimitError{Attempts: maxAttempts, Body: lastBody}
			}

			hint := retryHint(respBody, retryAfter)
			delay := backoffDelay(hint, attempt)
			log.Printf("[DEBUG] Gemini rate limited (attempt %d/%d), backing off %s", attempt, maxAttempts, delay)

			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}

		default:
			log.Printf("[ERROR] Gemini API returned status %d", status)
			return "", &APIError{StatusCode: status, Body: string(respBody)}
		}
	}

	// unreachable: the loop returns on its final attempt
	return "", &RateLimitError{Attempts: maxAttempts, Body: lastBody}
}

// post executes one request and returns status, body and the Retry-After header
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (int, []byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, "", fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, respBody, resp.Header.Get("Retry-After"), nil
}

// extractText pulls the first candidate's first text part out of a 200 response
func extractText(body []byte) (string, error) {
	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformedResponse
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrMalformedResponse
	}

	return text, nil
}

// retryHint reads the provider's suggested delay from the 429 body's
// RetryInfo detail, falling back to the Retry-After header, then to the
// 60s default.
func retryHint(body []byte, retryAfter string) time.Duration {
	var parsed rateLimitBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, detail := range parsed.Error.Details {
			if !strings.HasSuffix(detail.Type, "RetryInfo") || detail.RetryDelay == "" {
				continue
			}
			if d, err := time.ParseDuration(detail.RetryDelay); err == nil && d > 0 {
				return d
			}
		}
	}

	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	return defaultRetryDelay
}

// backoffDelay doubles the hint per attempt, capped at maxRetryDelay:
// min(hint * 2^(attempt-1), 300s)
func backoffDelay(hint time.Duration, attempt int) time.Duration {
	delay := hint * time.Duration(1<<uint(attempt-1))
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

// sleepContext blocks for d or until the context is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
