package contacts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetsync/meetsync-api/internal/models"
)

var (
	// ErrContactNotFound is returned when no extraction exists for a transcript
	ErrContactNotFound = errors.New("extracted contact not found")

	// ErrAlreadyExists is returned when a transcript already has an extraction.
	// Callers treat it as a benign skip, not a failure.
	ErrAlreadyExists = errors.New("extracted contact already exists")
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based extracted contact repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create persists an extracted contact. The unique index on transcript_id
// turns a concurrent duplicate create into ErrAlreadyExists.
func (r *GormRepository) Create(ctx context.Context, contact *models.ExtractedContact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create extracted contact: %w", err)
	}
	return nil
}

// GetByTranscriptID retrieves the extraction for a transcript
func (r *GormRepository) GetByTranscriptID(ctx context.Context, transcriptID uint) (*models.ExtractedContact, error) {
	var contact models.ExtractedContact
	err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get extracted contact for transcript %d: %w", transcriptID, err)
	}
	return &contact, nil
}

// ExistsForTranscript reports whether a transcript already has an extraction
func (r *GormRepository) ExistsForTranscript(ctx context.Context, transcriptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExtractedContact{}).
		Where("transcript_id = ?", transcriptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check extracted contact existence: %w", err)
	}
	return count > 0, nil
}
