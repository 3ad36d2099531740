package models

import (
	"time"

	"gorm.io/gorm"
)

// UserPreference stores per-user category/location filters as free-text
// delimited lists. Exactly one row per user.
type UserPreference struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex" json:"-"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Categories string    `gorm:"type:varchar(255)" json:"categories" validate:"max=255"`
	Locations  string    `gorm:"type:varchar(255)" json:"locations" validate:"max=255"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for the UserPreference model
func (UserPreference) TableName() string {
	return "user_preferences"
}

// GetOrCreateUserPreference returns existing preferences or creates an empty row
func GetOrCreateUserPreference(db *gorm.DB, userID uint) (*UserPreference, error) {
	var pref UserPreference
	if err := db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			pref = UserPreference{UserID: userID}
			if err := db.Create(&pref).Error; err != nil {
				return nil, err
			}
			return &pref, nil
		}
		return nil, err
	}
	return &pref, nil
}
