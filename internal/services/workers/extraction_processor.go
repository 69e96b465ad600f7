package workers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/extraction"
	"github.com/meetsync/meetsync-api/internal/services/gemini"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
)

// ExtractionProcessor runs contact extraction jobs: load the transcript and
// its meeting, run the model, persist the result once. Empty transcripts,
// empty extractions, and already-extracted transcripts complete as skips.
type ExtractionProcessor struct {
	jobService     jobs.Service
	meetingService meetings.Service
	contactService contacts.Service
	extractor      *extraction.Extractor
}

// NewExtractionProcessor creates a new extraction processor
func NewExtractionProcessor(
	jobService jobs.Service,
	meetingService meetings.Service,
	contactService contacts.Service,
	extractor *extraction.Extractor,
) *ExtractionProcessor {
	return &ExtractionProcessor{
		jobService:     jobService,
		meetingService: meetingService,
		contactService: contactService,
		extractor:      extractor,
	}
}

// SupportedTypes lists the job types this processor handles
func (p *ExtractionProcessor) SupportedTypes() []models.JobType {
	return []models.JobType{models.JobTypeContactExtraction}
}

// ProcessJob processes a contact extraction job
func (p *ExtractionProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if job.Type != models.JobTypeContactExtraction {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	log.Printf("[DEBUG] Processing contact extraction job %d", job.ID)

	transcriptID, ok := job.GetPayloadUint(jobs.PayloadKeyTranscriptID)
	if !ok {
		return models.NewSystemError("invalid_payload",
			"job payload is missing transcript_id", "", nil)
	}

	transcript, err := p.meetingService.GetTranscript(ctx, transcriptID)
	if err != nil {
		if errors.Is(err, meetings.ErrTranscriptNotFound) {
			return models.NewNotFoundError("transcript_not_found",
				fmt.Sprintf("transcript %d not found", transcriptID), "", err)
		}
		return models.NewSystemError("transcript_load_failed",
			fmt.Sprintf("failed to load transcript %d", transcriptID), err.Error(), err)
	}

	meeting, err := p.meetingService.GetMeeting(ctx, transcript.MeetingID)
	if err != nil {
		if errors.Is(err, meetings.ErrMeetingNotFound) {
			return models.NewNotFoundError("meeting_not_found",
				fmt.Sprintf("meeting %d not found for transcript %d", transcript.MeetingID, transcriptID), "", err)
		}
		return models.NewSystemError("meeting_load_failed",
			fmt.Sprintf("failed to load meeting %d", transcript.MeetingID), err.Error(), err)
	}

	text := transcript.PlainText()
	if text == "" {
		log.Printf("[DEBUG] Transcript %d is empty, nothing to extract", transcriptID)
		return p.complete(ctx, job, models.JobResult{"skipped": "empty_transcript"})
	}

	// check cancellation before the long model call
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := p.extractor.Extract(ctx, text, meeting.HostNames())
	if err != nil {
		return classifyExtractionError(transcriptID, err)
	}

	if len(info) == 0 {
		log.Printf("[DEBUG] No contact fields found in transcript %d", transcriptID)
		return p.complete(ctx, job, models.JobResult{"skipped": "no_contact_fields"})
	}

	created, err := p.contactService.SaveExtraction(ctx, transcriptID, info)
	if err != nil {
		return models.NewSystemError("persist_failed",
			fmt.Sprintf("failed to save extraction for transcript %d", transcriptID), err.Error(), err)
	}

	return p.complete(ctx, job, models.JobResult{
		"transcript_id": transcriptID,
		"created":       created,
		"field_count":   len(info),
	})
}

func (p *ExtractionProcessor) complete(ctx context.Context, job *models.Job, result models.JobResult) error {
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job %d: %w", job.ID, err)
	}
	return nil
}

// classifyExtractionError maps extraction failures onto the queue's error
// taxonomy so retry accounting treats them correctly
func classifyExtractionError(transcriptID uint, err error) error {
	var rateErr *gemini.RateLimitError
	if errors.As(err, &rateErr) {
		return models.NewRateLimitError("gemini_rate_limited",
			fmt.Sprintf("generative API rate limit exhausted for transcript %d", transcriptID),
			err.Error(), err)
	}

	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		return models.NewExternalAPIError("gemini_api_error",
			fmt.Sprintf("generative API returned status %d for transcript %d", apiErr.StatusCode, transcriptID),
			apiErr.Body, err)
	}

	return models.NewSystemError("extraction_failed",
		fmt.Sprintf("contact extraction failed for transcript %d", transcriptID),
		err.Error(), err)
}
