package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
	"go.uber.org/zap"
)

// Retriever turns a claim into an EvidenceSet by querying the external
// search capability. Provider failures and empty result sets are absorbed
// into a degraded EvidenceSet rather than escalated; the only hard failure
// is a missing credential. Retry policy belongs to the orchestrator, not
// here.
type Retriever struct {
	provider   Provider
	maxResults int
	logger     *zap.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(provider Provider, maxResults int, logger *zap.Logger) *Retriever {
	if maxResults <= 0 || maxResults > model.MaxSearchResults {
		maxResults = model.MaxSearchResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		provider:   provider,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Retrieve issues one bounded query for the claim. The claim must already
// be trimmed and non-empty; anything else fails fast with ErrInvalidInput.
func (r *Retriever) Retrieve(ctx context.Context, claim string, includeDomains, excludeDomains []string) (*model.EvidenceSet, error) {
	if claim == "" {
		return nil, fmt.Errorf("%w: claim is empty", model.ErrInvalidInput)
	}

	query := model.SearchQuery{
		Text:           claim,
		IncludeDomains: includeDomains,
		ExcludeDomains: excludeDomains,
		MaxResults:     r.maxResults,
	}.Clamp()

	results, err := r.provider.Search(ctx, query)
	if err != nil {
		if errors.Is(err, model.ErrMissingCredential) {
			return nil, err
		}
		r.logger.Warn("search degraded",
			zap.String("provider", r.provider.Name()),
			zap.Error(err))
		return &model.EvidenceSet{
			Claim:              claim,
			RetrievalSucceeded: false,
			RetrievalError:     err.Error(),
		}, nil
	}

	if len(results) == 0 {
		return &model.EvidenceSet{
			Claim:              claim,
			RetrievalSucceeded: false,
			RetrievalError:     fmt.Sprintf("%v for: %s", model.ErrNoResults, claim),
		}, nil
	}

	normalized := make([]model.SearchResult, 0, len(results))
	for _, res := range results {
		res.Content = normalizeContent(res.Content, model.MaxResultContentLen)
		normalized = append(normalized, res)
	}

	r.logger.Debug("search succeeded",
		zap.String("provider", r.provider.Name()),
		zap.Int("results", len(normalized)))

	return &model.EvidenceSet{
		Claim:              claim,
		Results:            normalized,
		RetrievalSucceeded: true,
	}, nil
}
