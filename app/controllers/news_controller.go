package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/cache"
	"github.com/nubuzz/nubuzz/internal/pkg/env"
	"github.com/nubuzz/nubuzz/internal/pkg/ingest"
	"github.com/nubuzz/nubuzz/internal/pkg/newsapi"
	"github.com/nubuzz/nubuzz/internal/pkg/summarize"
)

const (
	newsListCacheTTL     = 60 * time.Second
	newsListCachePattern = "news:list:*"
)

var (
	newsIngest     *ingest.Service
	newsSummarizer summarize.Summarizer
)

// InitializeNewsController wires the ingest pipeline against the live
// provider and the shared summarizer instance.
func InitializeNewsController() {
	articles := repository.GetGlobalFactory().GetArticleRepository()
	client := newsapi.NewClient(
		env.GetEnv("NEWS_API_KEY", ""),
		newsapi.WithCountry(env.GetEnv("NEWS_API_COUNTRY", "us")),
	)
	newsSummarizer = summarize.Default()
	newsIngest = ingest.NewService(articles, client, newsSummarizer, InvalidateNewsListCache)
}

// NewsIngestService exposes the wired ingest service for the scheduler.
func NewsIngestService() *ingest.Service {
	return newsIngest
}

// SetupNewsController swaps the ingest service and summarizer, used by tests
// to point at fake upstreams.
func SetupNewsController(svc *ingest.Service, summarizer summarize.Summarizer) {
	newsIngest = svc
	newsSummarizer = summarizer
}

// InvalidateNewsListCache drops every cached article listing.
func InvalidateNewsListCache() {
	if !cacheEnabled() {
		return
	}
	if _, err := cache.DeletePattern(newsListCachePattern); err != nil {
		log.Printf("news list cache invalidation failed: %v", err)
	}
}

// HandleFetchNews triggers one ingest pass and returns the refreshed
// article listing for the requested category.
func HandleFetchNews(c *fiber.Ctx) error {
	category := c.Query("category")

	result, err := newsIngest.Run(c.UserContext(), category)
	if err != nil {
		if errors.Is(err, newsapi.ErrUpstream) {
			return jsonError(c, fiber.StatusBadGateway, "upstream_error", "Failed to fetch news")
		}
		log.Printf("ingest failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Ingest failed")
	}

	articles, err := repository.GetGlobalFactory().GetArticleRepository().List(repository.ArticleFilter{Category: category})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load articles")
	}

	return c.JSON(fiber.Map{
		"status":           "success",
		"fetched_articles": result.Fetched,
		"articles":         articles,
	})
}

// HandleListNews returns the most recently published articles, optionally
// filtered by exact category and/or location match. Read-only; served from
// the listing cache when warm.
func HandleListNews(c *fiber.Ctx) error {
	filter := repository.ArticleFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
	}

	cacheKey := fmt.Sprintf("news:list:%s:%s", filter.Category, filter.Location)
	if cacheEnabled() {
		if cached, err := cache.Get(cacheKey); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	articles, err := repository.GetGlobalFactory().GetArticleRepository().List(filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load articles")
	}

	if cacheEnabled() {
		if body, err := json.Marshal(articles); err == nil {
			if err := cache.Set(cacheKey, body, newsListCacheTTL); err != nil {
				log.Printf("news list cache write failed: %v", err)
			}
		}
	}

	return c.JSON(articles)
}

// HandleSummarizeArticle computes (or recomputes) the summary for one
// article on demand, persists it, and returns it alongside the title.
func HandleSummarizeArticle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid article id")
	}

	articles := repository.GetGlobalFactory().GetArticleRepository()
	article, err := articles.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Article not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load article")
	}

	if !summarize.MeetsMinimumLength(article.Content) {
		return jsonError(c, fiber.StatusBadRequest, "content_too_short", "Content too short for summarization")
	}

	summary, err := newsSummarizer.Summarize(c.UserContext(), article.Content)
	if err != nil {
		log.Printf("summarize article %d: %v", article.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "summarizer_error", "Summarization failed")
	}

	if err := articles.SetSummary(article.ID, summary); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store summary")
	}

	return c.JSON(fiber.Map{
		"title":   article.Title,
		"summary": summary,
	})
}

func cacheEnabled() bool {
	return env.GetEnv("CACHE_ENABLED", "true") == "true"
}
