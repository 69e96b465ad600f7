package credentials

import (
	"context"
	"time"

	"github.com/meetsync/meetsync-api/internal/models"
)

// Repository defines the data access contract for CRM credentials
type Repository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.HubSpotCredential, error)
	Upsert(ctx context.Context, credential *models.HubSpotCredential) error
	UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error
	Delete(ctx context.Context, userID uint) error
}

// Service defines the business logic contract for CRM credentials
type Service interface {
	// GetCredential returns the stored credential for a user
	GetCredential(ctx context.Context, userID uint) (*models.HubSpotCredential, error)

	// StoreCredential creates or replaces a user's credential. Used by the
	// OAuth connect flow.
	StoreCredential(ctx context.Context, credential *models.HubSpotCredential) error

	// UpdateTokens replaces the token fields after a refresh. Concurrent
	// refreshes race freely; the last writer wins.
	UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error

	// DisconnectCredential removes a user's credential
	DisconnectCredential(ctx context.Context, userID uint) error
}
