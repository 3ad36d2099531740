package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUpstream marks any provider failure: transport errors, timeouts,
// non-2xx responses and non-ok payloads all wrap it.
var ErrUpstream = errors.New("news provider request failed")

const defaultBaseURL = "https://newsapi.org/v2"

// Article mirrors one item of the provider's top-headlines payload.
type Article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Headlines is the decoded top-headlines response.
type Headlines struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// Client talks to the NewsAPI top-headlines endpoint.
type Client struct {
	baseURL string
	apiKey  string
	country string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithCountry overrides the default "us" country filter.
func WithCountry(country string) Option {
	return func(c *Client) { c.country = country }
}

// NewClient creates a reusable client with a short request timeout so a
// hanging provider surfaces as the same fetch error as a bad status.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		country: "us",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopHeadlines fetches current headlines, optionally filtered by category.
func (c *Client) TopHeadlines(ctx context.Context, category string) (*Headlines, error) {
	q := url.Values{}
	q.Set("country", c.country)
	q.Set("apiKey", c.apiKey)
	if category != "" {
		q.Set("category", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var headlines Headlines
	if err := json.NewDecoder(resp.Body).Decode(&headlines); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK || headlines.Status != "ok" {
		msg := headlines.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	return &headlines, nil
}

// ParsePublishedAt converts the provider's RFC 3339 timestamp. Missing or
// unparseable values fall back to the current time so the row still sorts.
func ParsePublishedAt(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
