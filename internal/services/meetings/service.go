package meetings

import (
	"context"
	"fmt"
	"log"

	"github.com/meetsync/meetsync-api/internal/models"
)

const defaultPageSize = 20

type service struct {
	repo Repository
}

// NewService creates a new meeting service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) IngestMeeting(ctx context.Context, input MeetingInput) (*models.Meeting, error) {
	if input.ExternalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}
	if input.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	meeting := &models.Meeting{
		ExternalID: input.ExternalID,
		UserID:     input.UserID,
		Title:      input.Title,
		StartedAt:  input.StartedAt,
	}
	for _, p := range input.Participants {
		meeting.Participants = append(meeting.Participants, models.Participant{
			Name:   p.Name,
			Email:  p.Email,
			IsHost: p.IsHost,
		})
	}

	if err := s.repo.CreateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	if len(input.Segments) > 0 {
		transcript := &models.Transcript{
			MeetingID: meeting.ID,
			Segments:  input.Segments,
			Language:  input.Language,
		}
		if err := s.repo.CreateTranscript(ctx, transcript); err != nil {
			return nil, err
		}
		meeting.Transcript = transcript
	}

	log.Printf("[DEBUG] Ingested meeting %d (external ID %s) with %d participants",
		meeting.ID, meeting.ExternalID, len(meeting.Participants))
	return meeting, nil
}

func (s *service) GetMeeting(ctx context.Context, id uint) (*models.Meeting, error) {
	return s.repo.GetMeetingByID(ctx, id)
}

func (s *service) GetMeetingByExternalID(ctx context.Context, externalID string) (*models.Meeting, error) {
	return s.repo.GetMeetingByExternalID(ctx, externalID)
}

func (s *service) GetTranscript(ctx context.Context, id uint) (*models.Transcript, error) {
	return s.repo.GetTranscript(ctx, id)
}

func (s *service) GetMeetingForTranscript(ctx context.Context, transcriptID uint) (*models.Meeting, error) {
	transcript, err := s.repo.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetMeetingByID(ctx, transcript.MeetingID)
}

func (s *service) ListMeetings(ctx context.Context, userID uint, limit, offset int) ([]models.Meeting, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListMeetingsByUser(ctx, userID, limit, offset)
}
