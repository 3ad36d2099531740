package repository

import (
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/models"
)

// ArticleFilter narrows a listing to exact category/location matches.
// Zero values mean "no filter". Limit caps the page size.
type ArticleFilter struct {
	Category string
	Location string
	Limit    int
}

// ArticleRepository defines the interface for article-related database operations
type ArticleRepository interface {
	Upsert(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetByURL(url string) (*models.Article, error)
	List(filter ArticleFilter) ([]models.Article, error)
	SetSummary(id uint, summary string) error
	FillSummaryIfEmpty(id uint, summary string) (bool, error)
	Count() (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByName(name string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// PreferenceRepository defines the interface for user preference operations
type PreferenceRepository interface {
	GetOrCreateByUserID(userID uint) (*models.UserPreference, error)
	Update(pref *models.UserPreference) error
}

// TokenRepository defines the interface for auth token operations
type TokenRepository interface {
	GetByKey(key string) (*models.AuthToken, error)
	GetOrCreateForUser(userID uint) (*models.AuthToken, error)
	DeleteByUserID(userID uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Article    ArticleRepository
	User       UserRepository
	Preference PreferenceRepository
	Token      TokenRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Article:    NewArticleRepository(db),
		User:       NewUserRepository(db),
		Preference: NewPreferenceRepository(db),
		Token:      NewTokenRepository(db),
	}
}
