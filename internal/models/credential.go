package models

import (
	"time"

	"gorm.io/gorm"
)

// HubSpotCredential stores the OAuth tokens connecting a user to HubSpot.
// Created by the OAuth login flow; mutated only by token refresh.
type HubSpotCredential struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	AccessToken  string     `json:"-" gorm:"not null"`
	RefreshToken string     `json:"-" gorm:"not null"`
	ExpiresAt    *time.Time `json:"expires_at"` // nil means non-expiring
}

// AccessTokenValid reports whether the access token can be used without a
// refresh. A nil expiry is treated as non-expiring.
func (c *HubSpotCredential) AccessTokenValid(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.After(now)
}

// TableName specifies the table name for HubSpotCredential
func (HubSpotCredential) TableName() string {
	return "hubspot_credentials"
}
