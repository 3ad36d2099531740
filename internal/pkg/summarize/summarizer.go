package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nubuzz/nubuzz/internal/pkg/env"
)

// Generation bounds of the summarization model. Sampling is disabled so the
// same input always produces the same summary for a fixed model version.
const (
	MinSummaryTokens = 25
	MaxSummaryTokens = 50

	// MinInputTokens gates the model call: anything shorter produces noise
	// or model errors, so it is skipped without an invocation.
	MinInputTokens = 10
)

const (
	defaultEndpoint = "https://api-inference.huggingface.co"
	defaultModel    = "sshleifer/distilbart-cnn-12-6"
)

// Summarizer produces a short abstractive summary for article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// MeetsMinimumLength reports whether the text passes the gating
// precondition of at least MinInputTokens whitespace-delimited tokens.
func MeetsMinimumLength(text string) bool {
	return len(strings.Fields(text)) >= MinInputTokens
}

// Client calls a hosted summarization model over HTTP.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

var _ Summarizer = (*Client)(nil)

// NewClient creates a reusable summarization client. Model inference can be
// slow on cold starts, hence the generous timeout.
func NewClient(endpoint, model, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
	Options    inferenceOptions    `json:"options"`
}

type inferenceParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Summarize returns a summary of 25 to 50 tokens. Text below the gating
// threshold yields an empty summary without touching the model.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if !MeetsMinimumLength(text) {
		return "", nil
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs: text,
		Parameters: inferenceParameters{
			MinLength: MinSummaryTokens,
			MaxLength: MaxSummaryTokens,
			DoSample:  false,
		},
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/models/"+c.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarize: unexpected status %s", resp.Status)
	}

	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("summarize: empty model response")
	}

	return strings.TrimSpace(out[0].SummaryText), nil
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide summarizer, built lazily on first use
// and shared by all callers. The client is read-only after construction and
// its HTTP calls are reentrant, so no further locking is needed.
func Default() Summarizer {
	defaultOnce.Do(func() {
		defaultClient = NewClient(
			env.GetEnv("SUMMARIZER_ENDPOINT", defaultEndpoint),
			env.GetEnv("SUMMARIZER_MODEL", defaultModel),
			env.GetEnv("SUMMARIZER_API_KEY", ""),
		)
	})
	return defaultClient
}
