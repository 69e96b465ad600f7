package types

import (
	"context"

	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/credentials"
	"github.com/meetsync/meetsync-api/internal/services/hubspot"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
	"github.com/meetsync/meetsync-api/internal/services/workers"
)

// CRMClient is the surface of the HubSpot contacts client handlers depend on
type CRMClient interface {
	SearchContacts(ctx context.Context, credential *models.HubSpotCredential, query string, limit int) ([]hubspot.ContactResult, error)
	GetContact(ctx context.Context, credential *models.HubSpotCredential, contactID string) (*hubspot.ContactResult, error)
	UpdateContact(ctx context.Context, credential *models.HubSpotCredential, contactID string, properties map[string]string) error
}

// TokenExchanger is the surface of the OAuth connect flow handlers depend on
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*hubspot.TokenResponse, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	MeetingService    meetings.Service
	ContactService    contacts.Service
	CredentialService credentials.Service
	JobService        jobs.Service
	WorkerPool        *workers.WorkerPool
	CRMClient         CRMClient
	TokenExchanger    TokenExchanger
}
