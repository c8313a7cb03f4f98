package repository

import (
	"time"

	"github.com/hnakamura/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create persists a freshly minted token digest
func (r *GormTokenRepository) Create(token *models.AccessToken) error {
	return r.db.Create(token).Error
}

// FindByDigest resolves a digest to its token row with the user preloaded
func (r *GormTokenRepository) FindByDigest(digest string) (*models.AccessToken, error) {
	var token models.AccessToken
	err := r.db.Preload("User").Where("digest = ?", digest).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Touch records when a token was last used
func (r *GormTokenRepository) Touch(id uint64, usedAt time.Time) error {
	return r.db.Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}

// DeleteByDigest revokes a token. Idempotent: deleting an unknown digest
// succeeds.
func (r *GormTokenRepository) DeleteByDigest(digest string) error {
	return r.db.Where("digest = ?", digest).Delete(&models.AccessToken{}).Error
}
