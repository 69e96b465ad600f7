package contacts

import (
	"context"
	"errors"
	"log"

	"github.com/meetsync/meetsync-api/internal/models"
)

type service struct {
	repo Repository
}

// NewService creates a new extracted contact service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SaveExtraction(ctx context.Context, transcriptID uint, info models.ContactInfo) (bool, error) {
	exists, err := s.repo.ExistsForTranscript(ctx, transcriptID)
	if err != nil {
		return false, err
	}
	if exists {
		log.Printf("[DEBUG] Extraction already exists for transcript %d, skipping", transcriptID)
		return false, nil
	}

	contact := &models.ExtractedContact{
		TranscriptID: transcriptID,
		ContactInfo:  info,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		// Lost a create race to a concurrent job attempt. The record is
		// there, which is all this call guarantees.
		if errors.Is(err, ErrAlreadyExists) {
			log.Printf("[DEBUG] Concurrent extraction create for transcript %d, skipping", transcriptID)
			return false, nil
		}
		return false, err
	}

	log.Printf("[DEBUG] Saved extraction for transcript %d with %d fields", transcriptID, len(info))
	return true, nil
}

func (s *service) GetByTranscriptID(ctx context.Context, transcriptID uint) (*models.ExtractedContact, error) {
	return s.repo.GetByTranscriptID(ctx, transcriptID)
}
