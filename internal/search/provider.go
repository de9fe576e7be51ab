package search

import (
	"context"

	"github.com/ppiankov/veritas/internal/model"
)

// Provider defines the interface for external search capabilities.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Search issues one bounded query and returns results in provider
	// relevance order. Implementations must detect a missing credential
	// before issuing the call (model.ErrMissingCredential) and fail
	// closed with model.ErrProvider on any malformed response.
	Search(ctx context.Context, query model.SearchQuery) ([]model.SearchResult, error)
}
