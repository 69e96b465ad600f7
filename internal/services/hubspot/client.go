package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meetsync/meetsync-api/internal/models"
)

const (
	defaultBaseURL     = "https://api.hubapi.com"
	defaultSearchLimit = 5
)

// TokenRefresher exchanges a refresh token for a new access token
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
}

// CredentialStore persists refreshed tokens back onto the credential
type CredentialStore interface {
	UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error
}

// Client calls the HubSpot contacts API on behalf of a user credential.
// Every operation obtains a valid access token first and retries exactly once
// through a token refresh when the API answers 401.
type Client struct {
	httpClient *http.Client
	baseURL    string
	refresher  TokenRefresher
	store      CredentialStore
	now        func() time.Time
}

// NewClient creates a HubSpot client
func NewClient(cfg Config, refresher TokenRefresher, store CredentialStore) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		refresher:  refresher,
		store:      store,
		now:        time.Now,
	}
}

// SearchContacts runs a free-text search over CRM contacts. A blank query
// returns an empty result without touching the network.
func (c *Client) SearchContacts(ctx context.Context, credential *models.HubSpotCredential, query string, limit int) ([]ContactResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ContactResult{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	body, err := json.Marshal(searchRequest{
		Properties: defaultProperties(),
		Limit:      limit,
		Query:      query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	status, respBody, err := c.authorizedRequest(ctx, credential, http.MethodPost, "/crm/v3/objects/contacts/search", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(respBody)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return parsed.Results, nil
}

// GetContact fetches one CRM contact with the default property set
func (c *Client) GetContact(ctx context.Context, credential *models.HubSpotCredential, contactID string) (*ContactResult, error) {
	path := fmt.Sprintf("/crm/v3/objects/contacts/%s?properties=%s",
		url.PathEscape(contactID), url.QueryEscape(strings.Join(defaultProperties(), ",")))

	status, respBody, err := c.authorizedRequest(ctx, credential, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(respBody)}
	}

	var contact ContactResult
	if err := json.Unmarshal(respBody, &contact); err != nil {
		return nil, fmt.Errorf("failed to parse contact response: %w", err)
	}
	return &contact, nil
}

// UpdateContact patches the given properties onto a CRM contact
func (c *Client) UpdateContact(ctx context.Context, credential *models.HubSpotCredential, contactID string, properties map[string]string) error {
	if len(properties) == 0 {
		return ErrNoPropertiesToUpdate
	}

	body, err := json.Marshal(updateRequest{Properties: properties})
	if err != nil {
		return fmt.Errorf("failed to marshal update request: %w", err)
	}

	path := "/crm/v3/objects/contacts/" + url.PathEscape(contactID)
	status, respBody, err := c.authorizedRequest(ctx, credential, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &APIError{StatusCode: status, Body: string(respBody)}
	}

	log.Printf("[DEBUG] Updated HubSpot contact %s with %d properties", contactID, len(properties))
	return nil
}

// authorizedRequest performs a request with a valid token and handles the
// 401-triggered refresh. At most one refresh and retry happens per call; a
// second 401 reports the first response so the caller never loops.
func (c *Client) authorizedRequest(ctx context.Context, credential *models.HubSpotCredential, method, path string, body []byte) (int, []byte, error) {
	token, err := c.ensureValidToken(ctx, credential)
	if err != nil {
		return 0, nil, err
	}

	status, respBody, err := c.request(ctx, method, path, body, token)
	if err != nil {
		return 0, nil, err
	}
	if status != http.StatusUnauthorized {
		return status, respBody, nil
	}

	log.Printf("[WARN] HubSpot returned 401 for user %d, refreshing token and retrying", credential.UserID)
	firstStatus, firstBody := status, respBody

	token, err = c.refreshToken(ctx, credential)
	if err != nil {
		return 0, nil, err
	}

	status, respBody, err = c.request(ctx, method, path, body, token)
	if err != nil {
		return 0, nil, err
	}
	if status == http.StatusUnauthorized {
		return firstStatus, firstBody, nil
	}
	return status, respBody, nil
}

// ensureValidToken returns the credential's access token, refreshing it first
// when it has expired. A nil expiry means the token never expires.
func (c *Client) ensureValidToken(ctx context.Context, credential *models.HubSpotCredential) (string, error) {
	if credential.AccessTokenValid(c.now()) {
		return credential.AccessToken, nil
	}
	return c.refreshToken(ctx, credential)
}

// refreshToken performs a refresh and persists the new token pair onto the
// credential. Concurrent refreshes for the same user are tolerated; the last
// persisted write wins.
func (c *Client) refreshToken(ctx context.Context, credential *models.HubSpotCredential) (string, error) {
	response, err := c.refresher.RefreshAccessToken(ctx, credential.RefreshToken)
	if err != nil {
		return "", &RefreshError{Err: err}
	}

	refreshToken := response.RefreshToken
	if refreshToken == "" {
		refreshToken = credential.RefreshToken
	}
	var expiresAt *time.Time
	if response.ExpiresIn > 0 {
		t := c.now().Add(time.Duration(response.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	if err := c.store.UpdateTokens(ctx, credential.UserID, response.AccessToken, refreshToken, expiresAt); err != nil {
		return "", fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	credential.AccessToken = response.AccessToken
	credential.RefreshToken = refreshToken
	credential.ExpiresAt = expiresAt
	return response.AccessToken, nil
}

func (c *Client) request(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("hubspot request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
