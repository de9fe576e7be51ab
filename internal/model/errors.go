package model

import "errors"

// Error kinds used across the pipeline. Components wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with errors.Is
// without parsing strings.
var (
	// ErrInvalidInput marks an empty or whitespace-only claim, rejected
	// before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredential marks an absent API key. Fatal: the pipeline
	// must not proceed to agent invocation without operator action.
	ErrMissingCredential = errors.New("missing credential")

	// ErrProvider marks a search provider or network failure. Recoverable:
	// the pipeline continues on the degraded knowledge-only path.
	ErrProvider = errors.New("search provider error")

	// ErrNoResults marks a valid provider response with zero hits.
	// Recoverable, same degraded path as ErrProvider.
	ErrNoResults = errors.New("no search results")

	// ErrUnknownAgent marks an agent id with no registered descriptor.
	// Fatal for the request: a different agent is never substituted.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrTimeout marks a run that exceeded its polling wait budget.
	ErrTimeout = errors.New("run timed out")

	// ErrEmptyResponse marks a completed run that produced no agent text.
	// Soft anomaly: the verdict still counts as succeeded.
	ErrEmptyResponse = errors.New("empty response")

	// ErrInternal is the catch-all boundary fault at the orchestrator.
	ErrInternal = errors.New("internal error")
)
