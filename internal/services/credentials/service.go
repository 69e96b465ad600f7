package credentials

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/meetsync/meetsync-api/internal/models"
)

type service struct {
	repo Repository
}

// NewService creates a new credential service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCredential(ctx context.Context, userID uint) (*models.HubSpotCredential, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) StoreCredential(ctx context.Context, credential *models.HubSpotCredential) error {
	if credential.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if credential.AccessToken == "" || credential.RefreshToken == "" {
		return fmt.Errorf("access token and refresh token are required")
	}
	if err := s.repo.Upsert(ctx, credential); err != nil {
		return err
	}
	log.Printf("[DEBUG] Stored HubSpot credential for user %d", credential.UserID)
	return nil
}

func (s *service) UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error {
	if err := s.repo.UpdateTokens(ctx, userID, accessToken, refreshToken, expiresAt); err != nil {
		return err
	}
	log.Printf("[DEBUG] Refreshed HubSpot tokens for user %d", userID)
	return nil
}

func (s *service) DisconnectCredential(ctx context.Context, userID uint) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	log.Printf("[DEBUG] Disconnected HubSpot credential for user %d", userID)
	return nil
}
