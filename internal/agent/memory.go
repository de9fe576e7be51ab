package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ppiankov/veritas/internal/model"
)

// Responder produces the agent reply for a run given the session
// transcript at run start. Returning an error fails the run.
type Responder func(messages []model.Message) (string, error)

// MemoryHost is an in-process Host used for local dry runs and tests.
// Runs advance Queued -> InProgress -> Completed across successive polls,
// which exercises the same polling protocol as a remote host.
type MemoryHost struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	respond  Responder
}

type memorySession struct {
	messages []model.Message
	runs     map[string]*memoryRun
}

type memoryRun struct {
	agentID   string
	status    model.RunStatus
	lastError string
	polls     int
	snapshot  []model.Message // transcript at run start
}

// NewMemoryHost creates an in-process host. A nil responder gets a canned
// reply that echoes the transcript length.
func NewMemoryHost(respond Responder) *MemoryHost {
	if respond == nil {
		respond = func(messages []model.Message) (string, error) {
			return fmt.Sprintf("Dry-run verdict: no reasoning backend configured (%d message(s) in session).", len(messages)), nil
		}
	}
	return &MemoryHost{
		sessions: make(map[string]*memorySession),
		respond:  respond,
	}
}

// Name returns the host backend name
func (h *MemoryHost) Name() string {
	return "memory"
}

// CreateSession opens a fresh in-memory session.
func (h *MemoryHost) CreateSession(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := "sess_" + uuid.NewString()
	h.sessions[id] = &memorySession{
		runs: make(map[string]*memoryRun),
	}
	return id, nil
}

// AppendMessage adds one message to the session transcript.
func (h *MemoryHost) AppendMessage(ctx context.Context, sessionID string, role model.Role, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[sessionID]
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	sess.messages = append(sess.messages, model.Message{
		Role:      role,
		Text:      text,
		SessionID: sessionID,
	})
	return nil
}

// StartRun begins a run. The transcript is snapshotted so the reply is
// computed from the messages present at run start.
func (h *MemoryHost) StartRun(ctx context.Context, sessionID, agentID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[sessionID]
	if !ok {
		return "", fmt.Errorf("unknown session: %s", sessionID)
	}

	snapshot := make([]model.Message, len(sess.messages))
	copy(snapshot, sess.messages)

	id := "run_" + uuid.NewString()
	sess.runs[id] = &memoryRun{
		agentID:  agentID,
		status:   model.RunQueued,
		snapshot: snapshot,
	}
	return id, nil
}

// RetrieveRun advances the run one step per poll and appends the agent
// reply when the run completes.
func (h *MemoryHost) RetrieveRun(ctx context.Context, sessionID, runID string) (model.RunStatus, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[sessionID]
	if !ok {
		return model.RunFailed, "", fmt.Errorf("unknown session: %s", sessionID)
	}
	run, ok := sess.runs[runID]
	if !ok {
		return model.RunFailed, "", fmt.Errorf("unknown run: %s", runID)
	}

	if run.status.Terminal() {
		return run.status, run.lastError, nil
	}

	run.polls++
	switch run.polls {
	case 1:
		run.status = model.RunInProgress
	default:
		reply, err := h.respond(run.snapshot)
		if err != nil {
			run.status = model.RunFailed
			run.lastError = err.Error()
			break
		}
		sess.messages = append(sess.messages, model.Message{
			Role:      model.RoleAgent,
			Text:      reply,
			SessionID: sessionID,
		})
		run.status = model.RunCompleted
	}

	return run.status, run.lastError, nil
}

// ListMessages returns the session transcript in append order.
func (h *MemoryHost) ListMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", sessionID)
	}
	out := make([]model.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}
