package meetings

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
)

// Ingest stores a recorded meeting and queues contact extraction
// @Summary      Ingest a meeting
// @Description  Stores a meeting with its participants and transcript. When a
// @Description  transcript is present a contact extraction job is queued; the
// @Description  returned job_id can be used to track it.
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        meeting body meetings.MeetingInput true "Meeting payload"
// @Success      201 {object} types.MeetingResponse
// @Failure      400 {object} types.ErrorResponse "Invalid payload"
// @Failure      409 {object} types.ErrorResponse "Meeting already ingested"
// @Router       /api/v1/meetings [post]
func Ingest(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input meetings.MeetingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid meeting payload: " + err.Error()})
			return
		}

		meeting, err := deps.MeetingService.IngestMeeting(c.Request.Context(), input)
		if err != nil {
			if errors.Is(err, meetings.ErrDuplicateMeeting) {
				c.JSON(http.StatusConflict, types.ErrorResponse{Error: "Meeting already ingested"})
				return
			}
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}

		response := types.MeetingResponse{Meeting: meeting}
		if meeting.Transcript != nil {
			response.TranscriptID = meeting.Transcript.ID

			job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(),
				models.JobTypeContactExtraction,
				models.JobPayload{jobs.PayloadKeyTranscriptID: meeting.Transcript.ID},
				jobs.PayloadKeyTranscriptID)
			if err != nil {
				// the meeting is stored; extraction can be retriggered later
				log.Printf("[ERROR] Failed to enqueue extraction for transcript %d: %v", meeting.Transcript.ID, err)
			} else {
				response.JobID = job.ID
			}
		}

		c.JSON(http.StatusCreated, response)
	}
}

// Get returns a meeting with its participants
// @Summary      Get a meeting
// @Tags         meetings
// @Produce      json
// @Param        id path int true "Meeting ID"
// @Success      200 {object} models.Meeting
// @Failure      400 {object} types.ErrorResponse "Invalid meeting ID"
// @Failure      404 {object} types.ErrorResponse "Meeting not found"
// @Router       /api/v1/meetings/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid meeting ID"})
			return
		}

		meeting, err := deps.MeetingService.GetMeeting(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, meetings.ErrMeetingNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Meeting not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load meeting"})
			return
		}

		c.JSON(http.StatusOK, meeting)
	}
}

// List returns a page of a user's meetings
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Param        user_id query int true "User ID"
// @Param        limit query int false "Page size" default(20)
// @Param        offset query int false "Page offset" default(0)
// @Success      200 {array} models.Meeting
// @Failure      400 {object} types.ErrorResponse "Missing or invalid user_id"
// @Router       /api/v1/meetings [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing or invalid user_id"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		result, err := deps.MeetingService.ListMeetings(c.Request.Context(), uint(userID), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to list meetings"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
