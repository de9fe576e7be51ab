package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIHost implements the Host interface on the OpenAI Assistants API
// (threads map to sessions, assistants to agents). A BaseURL override
// points it at Azure-style deployments of the same surface.
type OpenAIHost struct {
	client *openai.Client
}

// NewOpenAIHost creates a new OpenAI-backed host.
func NewOpenAIHost(cfg model.AgentConfig) (*OpenAIHost, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", model.ErrMissingCredential)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIHost{
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Name returns the host backend name
func (h *OpenAIHost) Name() string {
	return "openai"
}

// CreateSession opens a new thread.
func (h *OpenAIHost) CreateSession(ctx context.Context) (string, error) {
	thread, err := h.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// AppendMessage adds one message to the thread.
func (h *OpenAIHost) AppendMessage(ctx context.Context, sessionID string, role model.Role, text string) error {
	_, err := h.client.CreateMessage(ctx, sessionID, openai.MessageRequest{
		Role:    roleToWire(role),
		Content: text,
	})
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// StartRun begins executing the assistant against the thread.
func (h *OpenAIHost) StartRun(ctx context.Context, sessionID, agentID string) (string, error) {
	run, err := h.client.CreateRun(ctx, sessionID, openai.RunRequest{
		AssistantID: agentID,
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return run.ID, nil
}

// RetrieveRun polls the run's status once.
func (h *OpenAIHost) RetrieveRun(ctx context.Context, sessionID, runID string) (model.RunStatus, string, error) {
	run, err := h.client.RetrieveRun(ctx, sessionID, runID)
	if err != nil {
		return model.RunFailed, "", fmt.Errorf("retrieve run: %w", err)
	}

	lastError := ""
	if run.LastError != nil {
		lastError = fmt.Sprintf("%s: %s", run.LastError.Code, run.LastError.Message)
	}

	return runStatusFromWire(run.Status), lastError, nil
}

// ListMessages returns the thread transcript in creation order.
func (h *OpenAIHost) ListMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	order := "asc"
	list, err := h.client.ListMessage(ctx, sessionID, nil, &order, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]model.Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		var text strings.Builder
		for _, part := range m.Content {
			if part.Text != nil {
				text.WriteString(part.Text.Value)
			}
		}
		messages = append(messages, model.Message{
			Role:      roleFromWire(m.Role),
			Text:      text.String(),
			SessionID: sessionID,
		})
	}

	return messages, nil
}

func roleToWire(role model.Role) string {
	if role == model.RoleUser {
		return openai.ChatMessageRoleUser
	}
	return openai.ChatMessageRoleAssistant
}

// roleFromWire folds every non-user wire role into RoleAgent: the host may
// report assistant or tool roles, and all of them count as agent output.
func roleFromWire(wire string) model.Role {
	if wire == openai.ChatMessageRoleUser {
		return model.RoleUser
	}
	return model.RoleAgent
}

func runStatusFromWire(status openai.RunStatus) model.RunStatus {
	switch status {
	case openai.RunStatusQueued:
		return model.RunQueued
	case openai.RunStatusInProgress, openai.RunStatusRequiresAction, openai.RunStatusCancelling:
		return model.RunInProgress
	case openai.RunStatusCompleted:
		return model.RunCompleted
	case openai.RunStatusFailed, openai.RunStatusExpired, openai.RunStatusCancelled:
		return model.RunFailed
	default:
		return model.RunInProgress
	}
}
