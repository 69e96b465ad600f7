package meetings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetsync/meetsync-api/internal/models"
)

var (
	// ErrMeetingNotFound is returned when a meeting doesn't exist
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrTranscriptNotFound is returned when a transcript doesn't exist
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrDuplicateMeeting is returned when a meeting with the same external ID
	// already exists
	ErrDuplicateMeeting = errors.New("meeting already exists")
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based meeting repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateMeeting persists a meeting together with its participants
func (r *GormRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMeeting
		}
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// CreateTranscript persists a transcript for a meeting
func (r *GormRepository) CreateTranscript(ctx context.Context, transcript *models.Transcript) error {
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

// GetMeetingByID retrieves a meeting with its participants
func (r *GormRepository) GetMeetingByID(ctx context.Context, id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&meeting, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting %d: %w", id, err)
	}
	return &meeting, nil
}

// GetMeetingByExternalID retrieves a meeting by its recorder-assigned ID
func (r *GormRepository) GetMeetingByExternalID(ctx context.Context, externalID string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Transcript").
		Where("external_id = ?", externalID).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting by external ID: %w", err)
	}
	return &meeting, nil
}

// GetTranscript retrieves a transcript by ID
func (r *GormRepository) GetTranscript(ctx context.Context, id uint) (*models.Transcript, error) {
	var transcript models.Transcript
	err := r.db.WithContext(ctx).First(&transcript, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript %d: %w", id, err)
	}
	return &transcript, nil
}

// GetTranscriptByMeetingID retrieves the transcript owned by a meeting
func (r *GormRepository) GetTranscriptByMeetingID(ctx context.Context, meetingID uint) (*models.Transcript, error) {
	var transcript models.Transcript
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		First(&transcript).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript for meeting %d: %w", meetingID, err)
	}
	return &transcript, nil
}

// ListMeetingsByUser retrieves a page of a user's meetings, newest first
func (r *GormRepository) ListMeetingsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}
