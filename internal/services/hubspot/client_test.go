package hubspot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meetsync-api/internal/models"
)

type fakeRefresher struct {
	calls    int
	response *TokenResponse
	err      error
}

func (f *fakeRefresher) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeStore struct {
	calls        int
	accessToken  string
	refreshToken string
	expiresAt    *time.Time
	err          error
}

func (f *fakeStore) UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error {
	f.calls++
	f.accessToken = accessToken
	f.refreshToken = refreshToken
	f.expiresAt = expiresAt
	return f.err
}

func validCredential() *models.HubSpotCredential {
	return &models.HubSpotCredential{
		UserID:       1,
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
	}
}

func expiredCredential() *models.HubSpotCredential {
	past := time.Now().UTC().Add(-time.Second)
	return &models.HubSpotCredential{
		UserID:       1,
		AccessToken:  "stale-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    &past,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, refresher *fakeRefresher, store *fakeStore) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL}, refresher, store)
}

func TestSearchContacts(t *testing.T) {
	var authHeaders []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		assert.Equal(t, "/crm/v3/objects/contacts/search", r.URL.Path)
		w.Write([]byte(`{"total":1,"results":[{"id":"301","properties":{"email":"jane@co.com","firstname":"Jane"}}]}`))
	}, &fakeRefresher{}, &fakeStore{})

	results, err := client.SearchContacts(context.Background(), validCredential(), "jane", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "301", results[0].ID)
	assert.Equal(t, "Jane", results[0].Properties["firstname"])
	assert.Equal(t, []string{"Bearer valid-token"}, authHeaders)
}

func TestSearchContactsBlankQuerySkipsNetwork(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	}, &fakeRefresher{}, &fakeStore{})

	for _, query := range []string{"", "   "} {
		results, err := client.SearchContacts(context.Background(), validCredential(), query, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Zero(t, requests)
}

func TestExpiredTokenRefreshesOnceBeforeRequest(t *testing.T) {
	refresher := &fakeRefresher{response: &TokenResponse{
		AccessToken:  "fresh-token",
		RefreshToken: "fresh-refresh",
		ExpiresIn:    1800,
	}}
	store := &fakeStore{}

	var tokens []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		w.Write([]byte(`{"results":[]}`))
	}, refresher, store)

	credential := expiredCredential()
	_, err := client.SearchContacts(context.Background(), credential, "jane", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, []string{"Bearer fresh-token"}, tokens)
	assert.Equal(t, "fresh-token", credential.AccessToken)
	assert.Equal(t, "fresh-refresh", credential.RefreshToken)
	require.NotNil(t, credential.ExpiresAt)
}

func TestValidTokenNeverRefreshes(t *testing.T) {
	refresher := &fakeRefresher{}

	future := time.Now().UTC().Add(time.Hour)
	for name, credential := range map[string]*models.HubSpotCredential{
		"nil expiry":    {UserID: 1, AccessToken: "t", RefreshToken: "r"},
		"future expiry": {UserID: 1, AccessToken: "t", RefreshToken: "r", ExpiresAt: &future},
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"results":[]}`))
			}, refresher, &fakeStore{})

			_, err := client.SearchContacts(context.Background(), credential, "jane", 5)
			require.NoError(t, err)
			assert.Zero(t, refresher.calls)
		})
	}
}

func TestUnauthorizedTriggersRefreshAndRetry(t *testing.T) {
	refresher := &fakeRefresher{response: &TokenResponse{AccessToken: "fresh-token"}}
	store := &fakeStore{}

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"expired"}`))
			return
		}
		assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"301","properties":{"email":"jane@co.com"}}`))
	}, refresher, store)

	credential := validCredential()
	contact, err := client.GetContact(context.Background(), credential, "301")
	require.NoError(t, err)
	assert.Equal(t, "jane@co.com", contact.Properties["email"])
	assert.Equal(t, 2, requests)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, "fresh-token", credential.AccessToken)
	// the stale refresh token is kept when the provider doesn't rotate it
	assert.Equal(t, "refresh-token", store.refreshToken)
}

func TestRepeatedUnauthorizedReturnsFirstError(t *testing.T) {
	refresher := &fakeRefresher{response: &TokenResponse{AccessToken: "fresh-token"}}

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"first failure"}`))
	}, refresher, &fakeStore{})

	_, err := client.GetContact(context.Background(), validCredential(), "301")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "first failure")

	// exactly one refresh and one retry, never a loop
	assert.Equal(t, 2, requests)
	assert.Equal(t, 1, refresher.calls)
}

func TestRefreshFailureSurfacesCause(t *testing.T) {
	refresher := &fakeRefresher{err: ErrMissingClientSecret}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, refresher, &fakeStore{})

	_, err := client.GetContact(context.Background(), validCredential(), "301")

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.ErrorIs(t, err, ErrMissingClientSecret)
}

func TestUpdateContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/301", r.URL.Path)
		w.Write([]byte(`{"id":"301"}`))
	}, &fakeRefresher{}, &fakeStore{})

	err := client.UpdateContact(context.Background(), validCredential(), "301", map[string]string{
		"email": "jane@co.com",
	})
	assert.NoError(t, err)
}

func TestUpdateContactEmptyProperties(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	}, &fakeRefresher{}, &fakeStore{})

	err := client.UpdateContact(context.Background(), validCredential(), "301", nil)
	assert.ErrorIs(t, err, ErrNoPropertiesToUpdate)
	assert.Zero(t, requests)
}

func TestUpdateContactAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad property"}`))
	}, &fakeRefresher{}, &fakeStore{})

	err := client.UpdateContact(context.Background(), validCredential(), "301", map[string]string{"bogus": "x"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
