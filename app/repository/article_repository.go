package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nubuzz/nubuzz/app/models"
)

// DefaultListLimit bounds article listings to the most recent rows.
const DefaultListLimit = 35

// articleRepository implements the ArticleRepository interface
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository instance
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Upsert inserts the article or, when a row with the same URL already
// exists, overwrites its descriptive fields. The summary column is left
// untouched on conflict so an already computed summary survives re-ingest.
func (r *articleRepository) Upsert(article *models.Article) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_id", "source_name", "author", "category", "title",
			"description", "content", "url_to_image", "published_at",
			"sentiment", "location", "updated_at",
		}),
	}).Create(article).Error
}

// GetByID retrieves an article by its ID
func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetByURL retrieves an article by its unique URL
func (r *articleRepository) GetByURL(url string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Where("url = ?", url).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns the most recently published articles matching the filter,
// ordered by publication time descending.
func (r *articleRepository) List(filter ArticleFilter) ([]models.Article, error) {
	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	query := r.db.Order("published_at DESC").Limit(limit)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}

	var articles []models.Article
	err := query.Find(&articles).Error
	return articles, err
}

// SetSummary overwrites the stored summary unconditionally. Used by the
// on-demand summarization endpoint.
func (r *articleRepository) SetSummary(id uint, summary string) error {
	result := r.db.Model(&models.Article{}).Where("id = ?", id).Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FillSummaryIfEmpty persists the summary only when the stored one is still
// blank and reports whether a write happened. Backfill during ingest goes
// through here so a summary is never recomputed once set.
func (r *articleRepository) FillSummaryIfEmpty(id uint, summary string) (bool, error) {
	result := r.db.Model(&models.Article{}).
		Where("id = ? AND (summary = '' OR summary IS NULL)", id).
		Update("summary", summary)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count returns the total number of stored articles
func (r *articleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Count(&count).Error
	return count, err
}
