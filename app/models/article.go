package models

import (
	"strings"
	"time"
)

const (
	SentimentNeutral = "neutral"
	LocationUnknown  = "unknown"
)

// Article is one ingested news item. The URL acts as the natural key:
// ingest upserts against it, so there is at most one row per URL.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourceID    string    `gorm:"type:varchar(100)" json:"source_id"`
	SourceName  string    `gorm:"type:varchar(100)" json:"source_name"`
	Author      string    `gorm:"type:varchar(200)" json:"author"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Title       string    `gorm:"type:varchar(300)" json:"title" validate:"required,max=300"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text" json:"-"`
	URL         string    `gorm:"uniqueIndex;type:varchar(500)" json:"url" validate:"required,url,max=500"`
	URLToImage  string    `gorm:"type:varchar(500)" json:"url_to_image"`
	PublishedAt time.Time `gorm:"index" json:"published_at"`
	Sentiment   string    `gorm:"type:varchar(50);default:'neutral'" json:"-"`
	Location    string    `gorm:"type:varchar(100);index;default:'unknown'" json:"location"`
	Summary     string    `gorm:"type:text" json:"summary"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for the Article model
func (Article) TableName() string {
	return "articles"
}

// HasSummary reports whether a summary has already been computed.
func (a *Article) HasSummary() bool {
	return strings.TrimSpace(a.Summary) != ""
}
