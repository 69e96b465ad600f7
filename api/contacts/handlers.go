package contacts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/models"
	contactsService "github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/credentials"
	"github.com/meetsync/meetsync-api/internal/services/hubspot"
	"github.com/meetsync/meetsync-api/internal/services/selection"
)

// Search searches CRM contacts by free text
// @Summary      Search CRM contacts
// @Description  Searches HubSpot contacts. A blank query returns an empty
// @Description  result without calling HubSpot.
// @Tags         contacts
// @Produce      json
// @Param        user_id query int true "User ID"
// @Param        q query string false "Search query"
// @Param        limit query int false "Max results" default(5)
// @Success      200 {array} hubspot.ContactResult
// @Failure      400 {object} types.ErrorResponse "Missing or invalid user_id"
// @Failure      401 {object} types.ErrorResponse "HubSpot not connected or authorization failed"
// @Failure      502 {object} types.ErrorResponse "HubSpot API error"
// @Router       /api/v1/contacts/search [get]
func Search(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := loadCredential(c, deps)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

		results, err := deps.CRMClient.SearchContacts(c.Request.Context(), credential, c.Query("q"), limit)
		if err != nil {
			respondCRMError(c, err)
			return
		}

		c.JSON(http.StatusOK, results)
	}
}

// Get fetches one CRM contact
// @Summary      Get a CRM contact
// @Tags         contacts
// @Produce      json
// @Param        id path string true "HubSpot contact ID"
// @Param        user_id query int true "User ID"
// @Success      200 {object} hubspot.ContactResult
// @Failure      400 {object} types.ErrorResponse "Missing or invalid user_id"
// @Failure      401 {object} types.ErrorResponse "HubSpot not connected or authorization failed"
// @Failure      502 {object} types.ErrorResponse "HubSpot API error"
// @Router       /api/v1/contacts/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := loadCredential(c, deps)
		if !ok {
			return
		}

		contact, err := deps.CRMClient.GetContact(c.Request.Context(), credential, c.Param("id"))
		if err != nil {
			respondCRMError(c, err)
			return
		}

		c.JSON(http.StatusOK, contact)
	}
}

// Sync pushes selected extracted fields to a CRM contact
// @Summary      Sync extracted fields to a CRM contact
// @Description  Maps the selected extracted fields to HubSpot properties and
// @Description  patches them onto the contact. When selected_fields is omitted
// @Description  every extracted field is synced.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "HubSpot contact ID"
// @Param        request body types.SyncRequest true "Sync request"
// @Success      200 {object} types.SyncResponse
// @Failure      400 {object} types.ErrorResponse "Invalid request or nothing to update"
// @Failure      401 {object} types.ErrorResponse "HubSpot not connected or authorization failed"
// @Failure      404 {object} types.ErrorResponse "No extraction for this transcript"
// @Failure      502 {object} types.ErrorResponse "HubSpot API error"
// @Router       /api/v1/contacts/{id}/sync [post]
func Sync(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request types.SyncRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid sync request: " + err.Error()})
			return
		}

		ctx := c.Request.Context()

		credential, err := deps.CredentialService.GetCredential(ctx, request.UserID)
		if err != nil {
			if errors.Is(err, credentials.ErrCredentialNotFound) {
				c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Connect your HubSpot account before syncing"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load HubSpot credential"})
			return
		}

		extracted, err := deps.ContactService.GetByTranscriptID(ctx, request.TranscriptID)
		if err != nil {
			if errors.Is(err, contactsService.ErrContactNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "No extraction exists for this transcript"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load extraction"})
			return
		}

		selected := buildSelection(extracted.ContactInfo, request.SelectedFields)
		payload := selection.BuildUpdatePayload(selected, extracted.ContactInfo)
		if len(payload) == 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Nothing to update: no selected fields have usable values"})
			return
		}

		contactID := c.Param("id")
		if err := deps.CRMClient.UpdateContact(ctx, credential, contactID, payload); err != nil {
			respondCRMError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SyncResponse{
			ContactID:  contactID,
			Properties: payload,
		})
	}
}

// buildSelection converts the requested field names into a selection set,
// defaulting to everything extracted when no fields are named
func buildSelection(info models.ContactInfo, fields []string) selection.Selection {
	if len(fields) == 0 {
		return selection.InitialSelection(selection.OrganizeByCategory(info))
	}

	selected := selection.Selection{}
	for _, name := range fields {
		if models.IsContactField(name) {
			selected[models.ContactField(name)] = true
		}
	}
	return selected
}

// loadCredential resolves the user's HubSpot credential from the user_id
// query parameter, writing the error response itself on failure
func loadCredential(c *gin.Context, deps *types.Dependencies) (*models.HubSpotCredential, bool) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing or invalid user_id"})
		return nil, false
	}

	credential, err := deps.CredentialService.GetCredential(c.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, credentials.ErrCredentialNotFound) {
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Connect your HubSpot account first"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load HubSpot credential"})
		return nil, false
	}
	return credential, true
}

// respondCRMError maps client errors onto actionable HTTP responses
func respondCRMError(c *gin.Context, err error) {
	var refreshErr *hubspot.RefreshError
	if errors.As(err, &refreshErr) {
		message := "HubSpot authorization expired, reconnect your account"
		if errors.Is(err, hubspot.ErrMissingClientID) || errors.Is(err, hubspot.ErrMissingClientSecret) {
			message = "HubSpot integration is not configured on this server"
		}
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: message})
		return
	}

	var apiErr *hubspot.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error: "HubSpot API error (status " + strconv.Itoa(apiErr.StatusCode) + ")",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "HubSpot request failed"})
}
