package repository

import (
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/models"
)

// tokenRepository implements the TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// GetByKey resolves a token key to its row, with the owning user preloaded
func (r *tokenRepository) GetByKey(key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.Preload("User").Where("`key` = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// GetOrCreateForUser returns the user's existing token or issues a new one.
// Login reuses an unexpired token the same way DRF's token auth does.
func (r *tokenRepository) GetOrCreateForUser(userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	token = models.AuthToken{UserID: userID}
	if err := token.GenerateKey(); err != nil {
		return nil, err
	}
	if err := r.db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUserID invalidates the user's current token
func (r *tokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
