package model

import (
	"fmt"
	"strings"
)

// MaxSearchResults bounds how many results a single query may request.
const MaxSearchResults = 10

// MaxResultContentLen bounds the free-text content of a single search result.
const MaxResultContentLen = 500

// NormalizeClaim trims the claim and rejects empty input.
// Every pipeline entry point must pass claims through here before any
// network call is made.
func NormalizeClaim(claim string) (string, error) {
	trimmed := strings.TrimSpace(claim)
	if trimmed == "" {
		return "", fmt.Errorf("%w: claim is empty", ErrInvalidInput)
	}
	return trimmed, nil
}

// SearchQuery describes one bounded query to the search provider.
// Created once per claim and never mutated.
type SearchQuery struct {
	Text           string   `json:"text"`
	IncludeDomains []string `json:"include_domains,omitempty"` // Domains to prioritize
	ExcludeDomains []string `json:"exclude_domains,omitempty"` // Domains to exclude
	MaxResults     int      `json:"max_results"`               // Clamped to MaxSearchResults
}

// Clamp bounds MaxResults to [1, MaxSearchResults].
func (q SearchQuery) Clamp() SearchQuery {
	if q.MaxResults <= 0 || q.MaxResults > MaxSearchResults {
		q.MaxResults = MaxSearchResults
	}
	return q
}

// SearchResult is a single normalized hit from the search provider.
// Order within an EvidenceSet is the provider's relevance ranking.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"` // Truncated to MaxResultContentLen
	Source  string `json:"source,omitempty"`
}

// EvidenceSet is the retrieval outcome for one claim. It is owned by the
// Verify call that created it and never shared across claims.
type EvidenceSet struct {
	Claim              string         `json:"claim"`
	Results            []SearchResult `json:"results"`
	RetrievalSucceeded bool           `json:"retrieval_succeeded"`
	RetrievalError     string         `json:"retrieval_error,omitempty"`
}
