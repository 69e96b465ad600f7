package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetsync/meetsync-api/internal/models"
)

// ErrCredentialNotFound is returned when a user has no stored credential
var ErrCredentialNotFound = errors.New("credential not found")

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based credential repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// GetByUserID retrieves a user's credential
func (r *GormRepository) GetByUserID(ctx context.Context, userID uint) (*models.HubSpotCredential, error) {
	var credential models.HubSpotCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential for user %d: %w", userID, err)
	}
	return &credential, nil
}

// Upsert creates a credential or replaces the token fields of an existing one
func (r *GormRepository) Upsert(ctx context.Context, credential *models.HubSpotCredential) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
		}).
		Create(credential).Error
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

// UpdateTokens overwrites the token fields in place. No locking; concurrent
// refreshes resolve to whichever write lands last.
func (r *GormRepository) UpdateTokens(ctx context.Context, userID uint, accessToken, refreshToken string, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.HubSpotCredential{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"expires_at":    expiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tokens for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// Delete removes a user's credential
func (r *GormRepository) Delete(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.HubSpotCredential{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete credential for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
