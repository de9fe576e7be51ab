package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/veritas/internal/model"
	"go.uber.org/zap"
)

// Session drives one isolated exchange with the reasoning backend: open,
// append, execute a run to a terminal status, read the transcript back.
// A session serves exactly one claim and is never reused, so concurrent
// Verify calls stay isolated by construction.
type Session struct {
	host         Host
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *zap.Logger

	state model.Session
	run   *model.Run
}

// NewSession creates a session bound to a host. Nothing is created on the
// host until Open is called.
func NewSession(host Host, pollInterval, runTimeout time.Duration, logger *zap.Logger) *Session {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if runTimeout <= 0 {
		runTimeout = 90 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		host:         host,
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

// Open creates the session on the host.
func (s *Session) Open(ctx context.Context) error {
	if s.state.ID != "" {
		return fmt.Errorf("session already open: %s", s.state.ID)
	}
	id, err := s.host.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	s.state.ID = id
	s.state.Status = model.SessionCreated
	return nil
}

// ID returns the host-assigned session id.
func (s *Session) ID() string {
	return s.state.ID
}

// Status returns the session lifecycle state.
func (s *Session) Status() model.SessionStatus {
	return s.state.Status
}

// Append adds one message to the session. A failed session accepts no
// further appends.
func (s *Session) Append(ctx context.Context, role model.Role, text string) (*model.Message, error) {
	if s.state.ID == "" {
		return nil, fmt.Errorf("session not open")
	}
	if s.state.Status == model.SessionFailed {
		return nil, fmt.Errorf("session %s is failed and unusable", s.state.ID)
	}
	if s.state.Status == model.SessionRunning {
		return nil, fmt.Errorf("session %s has an active run", s.state.ID)
	}

	if err := s.host.AppendMessage(ctx, s.state.ID, role, text); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	msg := model.Message{
		Role:      role,
		Text:      text,
		SessionID: s.state.ID,
	}
	s.state.Messages = append(s.state.Messages, msg)
	return &msg, nil
}

// Execute starts a run for the given agent and polls until it reaches a
// terminal status or the cumulative wait budget elapses. The returned run
// is always terminal; a budget overrun or cancellation yields a failed run
// carrying the timeout error and marks the session unusable.
func (s *Session) Execute(ctx context.Context, agentID string) (*model.Run, error) {
	if s.state.ID == "" {
		return nil, fmt.Errorf("session not open")
	}
	if s.run != nil {
		return nil, fmt.Errorf("session %s already executed a run", s.state.ID)
	}
	if s.state.Status == model.SessionFailed {
		return nil, fmt.Errorf("session %s is failed and unusable", s.state.ID)
	}

	runID, err := s.host.StartRun(ctx, s.state.ID, agentID)
	if err != nil {
		s.state.Status = model.SessionFailed
		return nil, fmt.Errorf("start run: %w", err)
	}

	run := &model.Run{
		SessionID: s.state.ID,
		AgentID:   agentID,
		Status:    model.RunQueued,
	}
	s.run = run
	s.state.Status = model.SessionRunning

	s.logger.Debug("run started",
		zap.String("session", s.state.ID),
		zap.String("run", runID),
		zap.String("agent", agentID))

	pollCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pollCtx.Done():
			run.Advance(model.RunFailed)
			run.LastError = fmt.Sprintf("%v after %s: %v", model.ErrTimeout, s.runTimeout, pollCtx.Err())
			s.state.Status = model.SessionFailed
			s.logger.Warn("run abandoned",
				zap.String("session", s.state.ID),
				zap.String("run", runID),
				zap.Duration("budget", s.runTimeout))
			return run, nil

		case <-ticker.C:
			status, lastError, err := s.host.RetrieveRun(pollCtx, s.state.ID, runID)
			if err != nil {
				run.Advance(model.RunFailed)
				run.LastError = err.Error()
				s.state.Status = model.SessionFailed
				return run, nil
			}

			run.Advance(status)
			if lastError != "" {
				run.LastError = lastError
			}

			if !run.Status.Terminal() {
				continue
			}

			if run.Status == model.RunCompleted {
				s.state.Status = model.SessionCompleted
			} else {
				s.state.Status = model.SessionFailed
				if run.LastError == "" {
					run.LastError = "run failed without a host error"
				}
			}

			s.logger.Debug("run finished",
				zap.String("session", s.state.ID),
				zap.String("run", runID),
				zap.String("status", string(run.Status)))
			return run, nil
		}
	}
}

// ReadMessages returns the transcript in creation order as reported by the
// host, including any agent messages produced by the run.
func (s *Session) ReadMessages(ctx context.Context) ([]model.Message, error) {
	if s.state.ID == "" {
		return nil, fmt.Errorf("session not open")
	}
	messages, err := s.host.ListMessages(ctx, s.state.ID)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	return messages, nil
}
