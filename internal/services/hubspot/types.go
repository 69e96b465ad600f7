package hubspot

import (
	"time"

	"github.com/meetsync/meetsync-api/internal/models"
)

// Config holds the settings for the HubSpot client and token exchanger
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// ContactResult is a CRM contact record as returned by the contacts API
type ContactResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// TokenResponse is the OAuth token endpoint's success payload
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type searchRequest struct {
	Properties []string `json:"properties"`
	Limit      int      `json:"limit"`
	Query      string   `json:"query"`
}

type searchResponse struct {
	Total   int             `json:"total"`
	Results []ContactResult `json:"results"`
}

type updateRequest struct {
	Properties map[string]string `json:"properties"`
}

// defaultProperties returns the CRM property keys requested on every search
// and get, covering the full contact field vocabulary
func defaultProperties() []string {
	var props []string
	for _, field := range models.AllContactFields() {
		props = append(props, models.HubSpotProperties[field])
	}
	return props
}
