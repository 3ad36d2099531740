package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// AuthToken is an opaque bearer token. One active token per user; login
// reuses the existing token, logout deletes it.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"uniqueIndex;type:char(40)" json:"token"`
	UserID    uint      `gorm:"uniqueIndex" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// TableName specifies the table name for the AuthToken model
func (AuthToken) TableName() string {
	return "auth_tokens"
}

// GenerateKey fills Key with a random 40 character hex string
func (t *AuthToken) GenerateKey() error {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	t.Key = hex.EncodeToString(b)
	return nil
}
