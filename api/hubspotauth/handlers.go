package hubspotauth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/credentials"
	"github.com/meetsync/meetsync-api/internal/services/hubspot"
)

// Connect exchanges an OAuth authorization code and stores the credential
// @Summary      Connect HubSpot
// @Description  Exchanges the OAuth authorization code from HubSpot's consent
// @Description  screen for tokens and stores them for the user
// @Tags         hubspot
// @Accept       json
// @Produce      json
// @Param        request body types.ConnectRequest true "Authorization code exchange"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} types.ErrorResponse "Invalid request or rejected code"
// @Failure      500 {object} types.ErrorResponse "Integration not configured"
// @Router       /api/v1/hubspot/connect [post]
func Connect(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request types.ConnectRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid connect request: " + err.Error()})
			return
		}

		ctx := c.Request.Context()

		token, err := deps.TokenExchanger.ExchangeCode(ctx, request.Code, request.RedirectURI)
		if err != nil {
			if errors.Is(err, hubspot.ErrMissingClientID) || errors.Is(err, hubspot.ErrMissingClientSecret) {
				c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "HubSpot integration is not configured on this server"})
				return
			}
			var apiErr *hubspot.APIError
			if errors.As(err, &apiErr) {
				c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "HubSpot rejected the authorization code"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Token exchange failed"})
			return
		}

		credential := &models.HubSpotCredential{
			UserID:       request.UserID,
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
		}
		if token.ExpiresIn > 0 {
			expiresAt := time.Now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second)
			credential.ExpiresAt = &expiresAt
		}

		if err := deps.CredentialService.StoreCredential(ctx, credential); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to store credential"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":  "connected",
			"user_id": request.UserID,
		})
	}
}

// Disconnect removes a user's stored HubSpot credential
// @Summary      Disconnect HubSpot
// @Tags         hubspot
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} types.ErrorResponse "Invalid user ID"
// @Failure      404 {object} types.ErrorResponse "No credential stored"
// @Router       /api/v1/hubspot/connect/{user_id} [delete]
func Disconnect(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user ID"})
			return
		}

		if err := deps.CredentialService.DisconnectCredential(c.Request.Context(), uint(userID)); err != nil {
			if errors.Is(err, credentials.ErrCredentialNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "No HubSpot credential stored for this user"})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to disconnect"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "disconnected",
			"user_id": userID,
		})
	}
}
