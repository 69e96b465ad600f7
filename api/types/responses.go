package types

import (
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/selection"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// JobStatusResponse reports the state of a queued job
type JobStatusResponse struct {
	JobID      uint             `json:"job_id"`
	Status     models.JobStatus `json:"status"`
	RetryCount int              `json:"retry_count"`
	Error      string           `json:"error,omitempty"`
}

// ExtractionResponse returns extracted contact info grouped for selection
type ExtractionResponse struct {
	TranscriptID uint                      `json:"transcript_id"`
	ContactInfo  models.ContactInfo        `json:"contact_info"`
	Categories   []selection.CategoryGroup `json:"categories"`
}

// MeetingResponse returns an ingested meeting with its transcript reference
type MeetingResponse struct {
	Meeting      *models.Meeting `json:"meeting"`
	TranscriptID uint            `json:"transcript_id,omitempty"`
	JobID        uint            `json:"job_id,omitempty"`
}

// SyncRequest asks for selected fields to be pushed to a CRM contact
type SyncRequest struct {
	UserID         uint     `json:"user_id" binding:"required"`
	TranscriptID   uint     `json:"transcript_id" binding:"required"`
	SelectedFields []string `json:"selected_fields"`
}

// SyncResponse reports the outcome of a CRM sync
type SyncResponse struct {
	ContactID  string            `json:"contact_id"`
	Properties map[string]string `json:"properties"`
}

// ConnectRequest carries the OAuth authorization code exchange
type ConnectRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirect_uri" binding:"required"`
}
