package contacts

import (
	"context"

	"github.com/meetsync/meetsync-api/internal/models"
)

// Repository defines the data access contract for extracted contacts
type Repository interface {
	Create(ctx context.Context, contact *models.ExtractedContact) error
	GetByTranscriptID(ctx context.Context, transcriptID uint) (*models.ExtractedContact, error)
	ExistsForTranscript(ctx context.Context, transcriptID uint) (bool, error)
}

// Service defines the business logic contract for extracted contacts
type Service interface {
	// SaveExtraction persists the contact info for a transcript exactly once.
	// If a record already exists, or another writer wins a concurrent create,
	// the call reports created=false with no error.
	SaveExtraction(ctx context.Context, transcriptID uint, info models.ContactInfo) (created bool, err error)

	GetByTranscriptID(ctx context.Context, transcriptID uint) (*models.ExtractedContact, error)
}
