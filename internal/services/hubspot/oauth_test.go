package hubspot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "my-refresh", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		// credentials travel in the body, never a header
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":1800}`))
	}))
	defer server.Close()

	exchanger := NewTokenExchanger(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     server.URL,
	})

	token, err := exchanger.RefreshAccessToken(context.Background(), "my-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
	assert.Equal(t, "new-refresh", token.RefreshToken)
	assert.Equal(t, 1800, token.ExpiresIn)
}

func TestRefreshAccessTokenMissingConfig(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	noID := NewTokenExchanger(Config{ClientSecret: "secret", TokenURL: server.URL})
	_, err := noID.RefreshAccessToken(context.Background(), "r")
	assert.ErrorIs(t, err, ErrMissingClientID)

	noSecret := NewTokenExchanger(Config{ClientID: "id", TokenURL: server.URL})
	_, err = noSecret.RefreshAccessToken(context.Background(), "r")
	assert.ErrorIs(t, err, ErrMissingClientSecret)

	// both fail fast without a network call
	assert.Zero(t, requests)
}

func TestRefreshAccessTokenProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"BAD_REFRESH_TOKEN"}`))
	}))
	defer server.Close()

	exchanger := NewTokenExchanger(Config{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL})
	_, err := exchanger.RefreshAccessToken(context.Background(), "revoked")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "BAD_REFRESH_TOKEN")
}

func TestRefreshAccessTokenMissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":1800}`))
	}))
	defer server.Close()

	exchanger := NewTokenExchanger(Config{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL})
	_, err := exchanger.RefreshAccessToken(context.Background(), "r")
	assert.ErrorContains(t, err, "access_token")
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.local/callback", r.PostForm.Get("redirect_uri"))
		w.Write([]byte(`{"access_token":"a","refresh_token":"r","expires_in":1800}`))
	}))
	defer server.Close()

	exchanger := NewTokenExchanger(Config{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL})
	token, err := exchanger.ExchangeCode(context.Background(), "auth-code", "https://app.local/callback")
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
}
