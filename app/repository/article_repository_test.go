package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/models"
)

func testArticle(url string) *models.Article {
	return &models.Article{
		SourceName:  "ESPN",
		Category:    "sports",
		Title:       "Big game tonight",
		Description: "A preview",
		Content:     "A preview\n\nFull body text",
		URL:         url,
		PublishedAt: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
		Sentiment:   models.SentimentNeutral,
		Location:    "ESPN",
	}
}

func TestUpsertIsIdempotentPerURL(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(testArticle("https://x/1")))
	require.NoError(t, repo.Upsert(testArticle("https://x/1")))
	require.NoError(t, repo.Upsert(testArticle("https://x/2")))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpsertOverwritesDescriptiveFieldsKeepsSummary(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(testArticle("https://x/1")))

	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)
	filled, err := repo.FillSummaryIfEmpty(stored.ID, "the computed summary")
	require.NoError(t, err)
	assert.True(t, filled)

	updated := testArticle("https://x/1")
	updated.Title = "Updated headline"
	updated.Author = "New Author"
	require.NoError(t, repo.Upsert(updated))

	stored, err = repo.GetByURL("https://x/1")
	require.NoError(t, err)
	assert.Equal(t, "Updated headline", stored.Title)
	assert.Equal(t, "New Author", stored.Author)
	assert.Equal(t, "the computed summary", stored.Summary, "summary must survive re-ingest")
}

func TestFillSummaryIfEmptyNeverOverwrites(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(testArticle("https://x/1")))
	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)

	filled, err := repo.FillSummaryIfEmpty(stored.ID, "first summary")
	require.NoError(t, err)
	assert.True(t, filled)

	filled, err = repo.FillSummaryIfEmpty(stored.ID, "second summary")
	require.NoError(t, err)
	assert.False(t, filled)

	stored, err = repo.GetByID(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "first summary", stored.Summary)
}

func TestSetSummaryOverwritesAndReportsMissing(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(testArticle("https://x/1")))
	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)

	require.NoError(t, repo.SetSummary(stored.ID, "v1"))
	require.NoError(t, repo.SetSummary(stored.ID, "v2"))

	stored, err = repo.GetByID(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.Summary)

	err = repo.SetSummary(9999, "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListFiltersAndOrdersByPublishedAtDesc(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	older := testArticle("https://x/older")
	older.PublishedAt = time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC)
	newer := testArticle("https://x/newer")
	newer.PublishedAt = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	tech := testArticle("https://x/tech")
	tech.Category = "technology"
	tech.Location = "Wired"

	for _, a := range []*models.Article{older, newer, tech} {
		require.NoError(t, repo.Upsert(a))
	}

	sports, err := repo.List(ArticleFilter{Category: "sports"})
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.Equal(t, "https://x/newer", sports[0].URL)
	assert.Equal(t, "https://x/older", sports[1].URL)
	for _, a := range sports {
		assert.Equal(t, "sports", a.Category)
	}

	located, err := repo.List(ArticleFilter{Location: "Wired"})
	require.NoError(t, err)
	require.Len(t, located, 1)
	assert.Equal(t, "https://x/tech", located[0].URL)

	all, err := repo.List(ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListHonorsPageBound(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultListLimit+5; i++ {
		a := testArticle(fmt.Sprintf("https://x/%d", i))
		a.PublishedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Upsert(a))
	}

	articles, err := repo.List(ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, articles, DefaultListLimit)
}
