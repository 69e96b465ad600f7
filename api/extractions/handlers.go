package extractions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
	"github.com/meetsync/meetsync-api/internal/services/selection"
)

// GetExtraction returns the extracted contact info for a transcript
// @Summary      Get extraction result
// @Description  Returns the contact fields extracted from a transcript,
// @Description  grouped by category for the selection UI
// @Tags         extractions
// @Produce      json
// @Param        id path int true "Transcript ID"
// @Success      200 {object} types.ExtractionResponse
// @Failure      400 {object} types.ErrorResponse "Invalid transcript ID"
// @Failure      404 {object} types.ErrorResponse "No extraction for this transcript"
// @Router       /api/v1/transcripts/{id}/extraction [get]
func GetExtraction(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		transcriptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid transcript ID"})
			return
		}

		contact, err := deps.ContactService.GetByTranscriptID(c.Request.Context(), uint(transcriptID))
		if err != nil {
			if errors.Is(err, contacts.ErrContactNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "No extraction exists for this transcript"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load extraction"})
			return
		}

		c.JSON(http.StatusOK, types.ExtractionResponse{
			TranscriptID: contact.TranscriptID,
			ContactInfo:  contact.ContactInfo,
			Categories:   selection.OrganizeByCategory(contact.ContactInfo),
		})
	}
}

// TriggerExtraction queues a contact extraction job for a transcript
// @Summary      Trigger extraction
// @Description  Queues contact extraction for a transcript. Extraction is
// @Description  idempotent; if a result already exists the call reports it
// @Description  without queuing a new job.
// @Tags         extractions
// @Produce      json
// @Param        id path int true "Transcript ID"
// @Success      200 {object} types.ExtractionResponse "Extraction already exists"
// @Success      202 {object} types.JobStatusResponse "Extraction job queued"
// @Failure      400 {object} types.ErrorResponse "Invalid transcript ID"
// @Failure      404 {object} types.ErrorResponse "Transcript not found"
// @Router       /api/v1/transcripts/{id}/extraction [post]
func TriggerExtraction(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		transcriptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid transcript ID"})
			return
		}

		ctx := c.Request.Context()

		if _, err := deps.MeetingService.GetTranscript(ctx, uint(transcriptID)); err != nil {
			if errors.Is(err, meetings.ErrTranscriptNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Transcript not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load transcript"})
			return
		}

		if existing, err := deps.ContactService.GetByTranscriptID(ctx, uint(transcriptID)); err == nil {
			c.JSON(http.StatusOK, types.ExtractionResponse{
				TranscriptID: existing.TranscriptID,
				ContactInfo:  existing.ContactInfo,
				Categories:   selection.OrganizeByCategory(existing.ContactInfo),
			})
			return
		}

		job, err := deps.JobService.EnqueueUniqueJob(ctx,
			models.JobTypeContactExtraction,
			models.JobPayload{jobs.PayloadKeyTranscriptID: uint(transcriptID)},
			jobs.PayloadKeyTranscriptID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to queue extraction"})
			return
		}

		c.JSON(http.StatusAccepted, types.JobStatusResponse{
			JobID:      job.ID,
			Status:     job.Status,
			RetryCount: job.RetryCount,
		})
	}
}

// GetJob returns the status of a queued job
// @Summary      Get job status
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} types.JobStatusResponse
// @Failure      400 {object} types.ErrorResponse "Invalid job ID"
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Router       /api/v1/jobs/{id} [get]
func GetJob(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid job ID"})
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), uint(jobID))
		if err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load job"})
			return
		}

		c.JSON(http.StatusOK, types.JobStatusResponse{
			JobID:      job.ID,
			Status:     job.Status,
			RetryCount: job.RetryCount,
			Error:      job.Error,
		})
	}
}
