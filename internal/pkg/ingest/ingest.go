package ingest

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/nubuzz/nubuzz/app/models"
	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/newsapi"
	"github.com/nubuzz/nubuzz/internal/pkg/summarize"
)

// HeadlinesFetcher is the slice of the provider client the ingest needs.
type HeadlinesFetcher interface {
	TopHeadlines(ctx context.Context, category string) (*newsapi.Headlines, error)
}

// Service pulls headlines from the provider, upserts them by URL and
// backfills missing summaries.
type Service struct {
	articles   repository.ArticleRepository
	news       HeadlinesFetcher
	summarizer summarize.Summarizer
	afterRun   func()
}

// NewService wires an ingest service. afterRun may be nil; it fires once per
// completed pass and is used to drop cached listings.
func NewService(articles repository.ArticleRepository, news HeadlinesFetcher, summarizer summarize.Summarizer, afterRun func()) *Service {
	return &Service{
		articles:   articles,
		news:       news,
		summarizer: summarizer,
		afterRun:   afterRun,
	}
}

// Result reports what one ingest pass did.
type Result struct {
	RunID      string `json:"run_id"`
	Fetched    int    `json:"fetched"`
	Upserted   int    `json:"upserted"`
	Skipped    int    `json:"skipped"`
	Summarized int    `json:"summarized"`
}

// Run executes one ingest pass. A provider failure aborts the pass before
// anything is persisted. Per-article failures are logged and skipped: the
// pass carries no batch transaction, and the URL-keyed upsert makes the next
// poll repair any partial state.
func (s *Service) Run(ctx context.Context, category string) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}

	headlines, err := s.news.TopHeadlines(ctx, category)
	if err != nil {
		return nil, err
	}
	result.Fetched = len(headlines.Articles)

	for _, item := range headlines.Articles {
		// Without a URL there is no upsert key
		if item.URL == "" {
			result.Skipped++
			continue
		}

		article := models.Article{
			SourceID:    item.Source.ID,
			SourceName:  item.Source.Name,
			Author:      item.Author,
			Category:    category,
			Title:       item.Title,
			Description: item.Description,
			Content:     CombineContent(item.Description, item.Content),
			URL:         item.URL,
			URLToImage:  item.URLToImage,
			PublishedAt: newsapi.ParsePublishedAt(item.PublishedAt),
			Sentiment:   models.SentimentNeutral,
			Location:    locationFor(item.Source.Name),
		}

		if err := s.articles.Upsert(&article); err != nil {
			log.Printf("ingest %s: upsert %s: %v", result.RunID, item.URL, err)
			result.Skipped++
			continue
		}
		result.Upserted++

		if err := s.backfillSummary(ctx, item.URL, result); err != nil {
			log.Printf("ingest %s: summarize %s: %v", result.RunID, item.URL, err)
		}
	}

	if s.afterRun != nil {
		s.afterRun()
	}

	log.Printf("ingest %s: fetched=%d upserted=%d skipped=%d summarized=%d",
		result.RunID, result.Fetched, result.Upserted, result.Skipped, result.Summarized)

	return result, nil
}

// backfillSummary computes a summary for the stored row when it has none
// and its content passes the gating precondition. Already summarized rows
// are never recomputed.
func (s *Service) backfillSummary(ctx context.Context, url string, result *Result) error {
	stored, err := s.articles.GetByURL(url)
	if err != nil {
		return err
	}
	if stored.HasSummary() || !summarize.MeetsMinimumLength(stored.Content) {
		return nil
	}

	summary, err := s.summarizer.Summarize(ctx, stored.Content)
	if err != nil {
		return err
	}
	if summary == "" {
		return nil
	}

	filled, err := s.articles.FillSummaryIfEmpty(stored.ID, summary)
	if err != nil {
		return err
	}
	if filled {
		result.Summarized++
	}
	return nil
}

// CombineContent joins the provider's description and body into the stored
// article text, keeping whichever side is present.
func CombineContent(description, content string) string {
	description = strings.TrimSpace(description)
	content = strings.TrimSpace(content)

	switch {
	case description == "":
		return content
	case content == "":
		return description
	default:
		return description + "\n\n" + content
	}
}

func locationFor(sourceName string) string {
	if strings.TrimSpace(sourceName) == "" {
		return models.LocationUnknown
	}
	return sourceName
}
