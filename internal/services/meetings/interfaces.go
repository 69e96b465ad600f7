package meetings

import (
	"context"
	"time"

	"github.com/meetsync/meetsync-api/internal/models"
)

// ParticipantInput describes one attendee in an ingested meeting
type ParticipantInput struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email"`
	IsHost bool   `json:"is_host"`
}

// MeetingInput is the payload accepted from the recording boundary
type MeetingInput struct {
	ExternalID   string             `json:"external_id" binding:"required"`
	UserID       uint               `json:"user_id" binding:"required"`
	Title        string             `json:"title"`
	StartedAt    time.Time          `json:"started_at"`
	Participants []ParticipantInput `json:"participants"`
	Segments     []models.Segment   `json:"segments"`
	Language     string             `json:"language"`
}

// Repository defines the data access contract for meetings and transcripts
type Repository interface {
	CreateMeeting(ctx context.Context, meeting *models.Meeting) error
	CreateTranscript(ctx context.Context, transcript *models.Transcript) error
	GetMeetingByID(ctx context.Context, id uint) (*models.Meeting, error)
	GetMeetingByExternalID(ctx context.Context, externalID string) (*models.Meeting, error)
	GetTranscript(ctx context.Context, id uint) (*models.Transcript, error)
	GetTranscriptByMeetingID(ctx context.Context, meetingID uint) (*models.Transcript, error)
	ListMeetingsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Meeting, error)
}

// Service defines the business logic contract for meetings
type Service interface {
	// IngestMeeting stores a meeting with its participants and transcript
	// and returns the persisted meeting. The transcript ID on the returned
	// meeting is what extraction jobs are keyed by.
	IngestMeeting(ctx context.Context, input MeetingInput) (*models.Meeting, error)

	GetMeeting(ctx context.Context, id uint) (*models.Meeting, error)
	GetMeetingByExternalID(ctx context.Context, externalID string) (*models.Meeting, error)
	GetTranscript(ctx context.Context, id uint) (*models.Transcript, error)

	// GetMeetingForTranscript resolves the transcript's owning meeting with
	// its participants loaded
	GetMeetingForTranscript(ctx context.Context, transcriptID uint) (*models.Meeting, error)

	ListMeetings(ctx context.Context, userID uint, limit, offset int) ([]models.Meeting, error)
}
