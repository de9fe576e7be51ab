package model

// Role identifies who authored a message within a session.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent" // Any non-user role reported by the host
)

// SessionStatus tracks the lifecycle of a single-use session.
type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session is one isolated exchange with the reasoning backend. A session
// serves exactly one claim; there is no reuse or replay across claims.
type Session struct {
	ID       string        `json:"id"`
	Messages []Message     `json:"messages"` // Strictly append-ordered
	Status   SessionStatus `json:"status"`
}

// Message is one entry in a session's append-only transcript.
type Message struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

// RunStatus is the state of one agent execution against a session.
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// runStatusRank orders statuses so transitions stay monotonic.
var runStatusRank = map[RunStatus]int{
	RunQueued:     0,
	RunInProgress: 1,
	RunCompleted:  2,
	RunFailed:     2,
}

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// Run is one execution of a reasoning agent against a session. A session
// holds at most one active run at a time.
type Run struct {
	SessionID string    `json:"session_id"`
	AgentID   string    `json:"agent_id"`
	Status    RunStatus `json:"status"`
	LastError string    `json:"last_error,omitempty"`
}

// Advance moves the run to next only if that does not revert a later
// status. Returns the status actually in effect afterwards.
func (r *Run) Advance(next RunStatus) RunStatus {
	if runStatusRank[next] >= runStatusRank[r.Status] && !r.Status.Terminal() {
		r.Status = next
	}
	return r.Status
}
