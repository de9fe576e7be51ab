package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Host is the narrow interface to the external reasoning-agent service.
// If the invoked agent delegates to a specialist via a connected tool, that
// happens inside a single run on the host side; this interface only
// observes run status and the resulting messages.
type Host interface {
	// Name returns the host backend name
	Name() string

	// CreateSession opens a fresh conversational context and returns its id.
	CreateSession(ctx context.Context) (string, error)

	// AppendMessage adds one message to the session transcript.
	AppendMessage(ctx context.Context, sessionID string, role model.Role, text string) error

	// StartRun begins executing an agent against the session's messages
	// and returns a pollable run id.
	StartRun(ctx context.Context, sessionID, agentID string) (string, error)

	// RetrieveRun reports the run's current status and, for failed runs,
	// the host-side error description.
	RetrieveRun(ctx context.Context, sessionID, runID string) (model.RunStatus, string, error)

	// ListMessages returns the session transcript in creation order.
	ListMessages(ctx context.Context, sessionID string) ([]model.Message, error)
}

// NewHost creates a host backend based on configuration.
func NewHost(cfg model.AgentConfig) (Host, error) {
	switch strings.ToLower(cfg.Host) {
	case "openai", "":
		return NewOpenAIHost(cfg)

	case "memory":
		return NewMemoryHost(nil), nil

	default:
		return nil, fmt.Errorf("unknown agent host: %s (supported: openai, memory)", cfg.Host)
	}
}
