package credentials

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/internal/models"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewService(NewGormRepository(db.DB))
}

func TestStoreAndGetCredential(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour)
	err := svc.StoreCredential(ctx, &models.HubSpotCredential{
		UserID:       1,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    &expires,
	})
	require.NoError(t, err)

	cred, err := svc.GetCredential(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "access-1", cred.AccessToken)
	assert.True(t, cred.AccessTokenValid(time.Now().UTC()))
}

func TestStoreCredentialReplacesExisting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreCredential(ctx, &models.HubSpotCredential{
		UserID: 1, AccessToken: "old", RefreshToken: "old-refresh",
	}))
	require.NoError(t, svc.StoreCredential(ctx, &models.HubSpotCredential{
		UserID: 1, AccessToken: "new", RefreshToken: "new-refresh",
	}))

	cred, err := svc.GetCredential(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", cred.AccessToken)
	assert.Equal(t, "new-refresh", cred.RefreshToken)
}

func TestUpdateTokensLastWriterWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreCredential(ctx, &models.HubSpotCredential{
		UserID: 1, AccessToken: "initial", RefreshToken: "initial-refresh",
	}))

	first := time.Now().UTC().Add(30 * time.Minute)
	second := time.Now().UTC().Add(time.Hour)
	require.NoError(t, svc.UpdateTokens(ctx, 1, "access-a", "refresh-a", &first))
	require.NoError(t, svc.UpdateTokens(ctx, 1, "access-b", "refresh-b", &second))

	cred, err := svc.GetCredential(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "access-b", cred.AccessToken)
	assert.Equal(t, "refresh-b", cred.RefreshToken)
}

func TestUpdateTokensMissingCredential(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateTokens(context.Background(), 99, "a", "r", nil)
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestDisconnectCredential(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreCredential(ctx, &models.HubSpotCredential{
		UserID: 1, AccessToken: "a", RefreshToken: "r",
	}))
	require.NoError(t, svc.DisconnectCredential(ctx, 1))

	_, err := svc.GetCredential(ctx, 1)
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	assert.ErrorIs(t, svc.DisconnectCredential(ctx, 1), ErrCredentialNotFound)
}
