package model

// AgentRole distinguishes the single coordinating agent from the
// specialists it may delegate to.
type AgentRole string

const (
	// RoleOrchestrator coordinates the verification and may hold
	// connected tools pointing at specialists.
	RoleOrchestrator AgentRole = "orchestrator"

	// RoleSpecialist performs one delegated analysis step. Specialists
	// never hold tools of their own.
	RoleSpecialist AgentRole = "specialist"
)

// AgentDescriptor describes one reasoning agent provisioned on the external
// host. Descriptors are loaded once at process start and read-only after.
type AgentDescriptor struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Capability string    `json:"capability" yaml:"capability"`
	Role       AgentRole `json:"role" yaml:"role"`
}

// ConnectedTool binds a specialist descriptor to a callable name exposed to
// the orchestrator agent, enabling delegation inside a single run. The
// target id must resolve to a live AgentDescriptor.
type ConnectedTool struct {
	OwnerID     string `json:"owner_id" yaml:"owner_id"`
	TargetID    string `json:"target_id" yaml:"target_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}
