package repository

import (
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/models"
)

// preferenceRepository implements the PreferenceRepository interface
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository instance
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetOrCreateByUserID returns the user's preference row, creating an empty
// one lazily on first access.
func (r *preferenceRepository) GetOrCreateByUserID(userID uint) (*models.UserPreference, error) {
	return models.GetOrCreateUserPreference(r.db, userID)
}

// Update persists changes to an existing preference row
func (r *preferenceRepository) Update(pref *models.UserPreference) error {
	return r.db.Save(pref).Error
}
