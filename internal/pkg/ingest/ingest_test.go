package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nubuzz/nubuzz/app/models"
	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/newsapi"
)

type fakeFetcher struct {
	headlines *newsapi.Headlines
	err       error
}

func (f *fakeFetcher) TopHeadlines(ctx context.Context, category string) (*newsapi.Headlines, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.headlines, nil
}

type fakeSummarizer struct {
	summary string
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.calls++
	return f.summary, nil
}

func newArticleRepo(t *testing.T) repository.ArticleRepository {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Article{}))
	return repository.NewArticleRepository(db)
}

func headlinesWith(articles ...newsapi.Article) *newsapi.Headlines {
	return &newsapi.Headlines{Status: "ok", TotalResults: len(articles), Articles: articles}
}

func providerArticle(url, description, content string) newsapi.Article {
	a := newsapi.Article{
		Author:      "Jo Doe",
		Title:       "Headline",
		Description: description,
		URL:         url,
		PublishedAt: "2025-08-01T10:00:00Z",
		Content:     content,
	}
	a.Source.ID = "espn"
	a.Source.Name = "ESPN"
	return a
}

func TestRunIngestsAndSummarizes(t *testing.T) {
	repo := newArticleRepo(t)
	content := strings.TrimSpace(strings.Repeat("word ", 12))
	fetcher := &fakeFetcher{headlines: headlinesWith(providerArticle("https://x/1", "", content))}
	summarizer := &fakeSummarizer{summary: "a generated summary"}

	ranAfter := false
	svc := NewService(repo, fetcher, summarizer, func() { ranAfter = true })

	result, err := svc.Run(context.Background(), "sports")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 1, result.Summarized)
	assert.True(t, ranAfter)

	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)
	assert.Equal(t, content, stored.Content, "no description: combined text is the body alone")
	assert.Equal(t, "sports", stored.Category)
	assert.Equal(t, "ESPN", stored.Location)
	assert.Equal(t, models.SentimentNeutral, stored.Sentiment)
	assert.Equal(t, "a generated summary", stored.Summary)
}

func TestRunIsIdempotentPerURL(t *testing.T) {
	repo := newArticleRepo(t)
	content := strings.Repeat("word ", 12)
	fetcher := &fakeFetcher{headlines: headlinesWith(
		providerArticle("https://x/1", "desc", content),
		providerArticle("https://x/2", "desc", content),
	)}
	svc := NewService(repo, fetcher, &fakeSummarizer{summary: "s"}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Run(context.Background(), "")
		require.NoError(t, err)
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRunNeverRecomputesExistingSummary(t *testing.T) {
	repo := newArticleRepo(t)
	content := strings.Repeat("word ", 12)
	fetcher := &fakeFetcher{headlines: headlinesWith(providerArticle("https://x/1", "", content))}
	summarizer := &fakeSummarizer{summary: "first summary"}
	svc := NewService(repo, fetcher, summarizer, nil)

	_, err := svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, summarizer.calls)

	// second pass with unchanged content must not touch the model
	summarizer.summary = "second summary"
	_, err = svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, summarizer.calls)

	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)
	assert.Equal(t, "first summary", stored.Summary)
}

func TestRunSkipsItemsWithoutURL(t *testing.T) {
	repo := newArticleRepo(t)
	fetcher := &fakeFetcher{headlines: headlinesWith(
		providerArticle("", "desc", "body"),
		providerArticle("https://x/1", "desc", "body"),
	)}
	svc := NewService(repo, fetcher, &fakeSummarizer{}, nil)

	result, err := svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Upserted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRunGatesShortContent(t *testing.T) {
	repo := newArticleRepo(t)
	fetcher := &fakeFetcher{headlines: headlinesWith(providerArticle("https://x/1", "", "short text"))}
	summarizer := &fakeSummarizer{summary: "unused"}
	svc := NewService(repo, fetcher, summarizer, nil)

	result, err := svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, summarizer.calls, "gated content must not reach the model")
	assert.Zero(t, result.Summarized)

	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)
	assert.Empty(t, stored.Summary)
}

func TestRunProviderFailurePersistsNothing(t *testing.T) {
	repo := newArticleRepo(t)
	fetcher := &fakeFetcher{err: newsapi.ErrUpstream}
	svc := NewService(repo, fetcher, &fakeSummarizer{}, nil)

	_, err := svc.Run(context.Background(), "")
	assert.ErrorIs(t, err, newsapi.ErrUpstream)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunFallsBackToUnknownLocation(t *testing.T) {
	repo := newArticleRepo(t)
	item := providerArticle("https://x/1", "desc", "body")
	item.Source.Name = ""
	fetcher := &fakeFetcher{headlines: headlinesWith(item)}
	svc := NewService(repo, fetcher, &fakeSummarizer{}, nil)

	_, err := svc.Run(context.Background(), "")
	require.NoError(t, err)

	stored, err := repo.GetByURL("https://x/1")
	require.NoError(t, err)
	assert.Equal(t, models.LocationUnknown, stored.Location)
}

func TestCombineContent(t *testing.T) {
	assert.Equal(t, "body", CombineContent("", "body"))
	assert.Equal(t, "desc", CombineContent("desc", ""))
	assert.Equal(t, "desc\n\nbody", CombineContent("desc", "body"))
	assert.Equal(t, "", CombineContent(" ", ""))
}
