package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
	"github.com/ppiankov/veritas/internal/worker"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily implements the Provider interface for the Tavily search API.
type Tavily struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// NewTavily creates a new Tavily provider from configuration.
func NewTavily(cfg model.SearchConfig) *Tavily {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1.0
	}

	return &Tavily{
		apiKey:   cfg.APIKey,
		endpoint: tavilyEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		limiter: worker.NewLimiter(rps, cfg.Burst),
	}
}

// Name returns the provider name
func (t *Tavily) Name() string {
	return "tavily"
}

// Tavily API structures
type tavilyRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	MaxResults     int      `json:"max_results"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Search posts one query to Tavily. The response is decoded against an
// explicit schema and fails closed on any shape mismatch.
func (t *Tavily) Search(ctx context.Context, query model.SearchQuery) ([]model.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, fmt.Errorf("%w: TAVILY_API_KEY not set", model.ErrMissingCredential)
	}

	query = query.Clamp()

	payload, err := json.Marshal(tavilyRequest{
		APIKey:         t.apiKey,
		Query:          query.Text,
		IncludeDomains: query.IncludeDomains,
		ExcludeDomains: query.ExcludeDomains,
		MaxResults:     query.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", model.ErrProvider, err)
	}

	resp, err := t.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tavily http %d", model.ErrProvider, resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrProvider, err)
	}

	results := make([]model.SearchResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		// Fail closed on partial entries rather than forwarding garbage.
		if r.URL == "" {
			return nil, fmt.Errorf("%w: result missing url", model.ErrProvider)
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Source:  r.Source,
		})
		if len(results) >= query.MaxResults {
			break
		}
	}

	return results, nil
}

// post issues the request with per-host rate limiting and a bounded
// backoff on 429 responses.
func (t *Tavily) post(ctx context.Context, payload []byte) (*http.Response, error) {
	delay := 1 * time.Second

	for {
		if err := t.limiter.Wait(ctx, t.endpoint); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", model.ErrProvider, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: create request: %v", model.ErrProvider, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrProvider, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		// Back off and retry on 429, doubling up to 8s. The context
		// deadline bounds the total wait.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", model.ErrProvider, ctx.Err())
		case <-time.After(delay):
		}
		if delay < 8*time.Second {
			delay *= 2
		}
	}
}
