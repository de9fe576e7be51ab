package agent

import (
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// Registry holds the descriptors of available reasoning agents and the
// connected tools exposed to the orchestrator-role agent. It is built once
// at process start and read-only after, so unsynchronized concurrent reads
// are safe.
//
// Delegation topology is exactly two levels: one orchestrator-role agent
// holding zero or more tools to specialist-role agents. Recursion is
// rejected at registration time, not at call time.
type Registry struct {
	agents    map[string]model.AgentDescriptor
	tools     map[string][]model.ConnectedTool // owner id -> tools in registration order
	primaryID string
}

// NewRegistry validates the agent topology and builds a read-only registry.
func NewRegistry(agents []model.AgentDescriptor, tools []model.ConnectedTool) (*Registry, error) {
	r := &Registry{
		agents: make(map[string]model.AgentDescriptor, len(agents)),
		tools:  make(map[string][]model.ConnectedTool),
	}

	for _, a := range agents {
		if a.ID == "" {
			return nil, fmt.Errorf("agent %q has no id", a.Name)
		}
		if _, dup := r.agents[a.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id: %s", a.ID)
		}
		switch a.Role {
		case model.RoleOrchestrator:
			if r.primaryID != "" {
				return nil, fmt.Errorf("multiple orchestrator agents: %s and %s", r.primaryID, a.ID)
			}
			r.primaryID = a.ID
		case model.RoleSpecialist:
		default:
			return nil, fmt.Errorf("agent %s has unknown role %q", a.ID, a.Role)
		}
		r.agents[a.ID] = a
	}

	if r.primaryID == "" {
		return nil, fmt.Errorf("%w: no orchestrator agent registered", model.ErrUnknownAgent)
	}

	for _, t := range tools {
		owner, ok := r.agents[t.OwnerID]
		if !ok {
			return nil, fmt.Errorf("%w: tool %q owner %s", model.ErrUnknownAgent, t.Name, t.OwnerID)
		}
		if owner.Role != model.RoleOrchestrator {
			return nil, fmt.Errorf("agent %s is a specialist and cannot hold tool %q", t.OwnerID, t.Name)
		}
		target, ok := r.agents[t.TargetID]
		if !ok {
			return nil, fmt.Errorf("%w: tool %q target %s", model.ErrUnknownAgent, t.Name, t.TargetID)
		}
		if target.Role != model.RoleSpecialist {
			return nil, fmt.Errorf("tool %q target %s must be a specialist", t.Name, t.TargetID)
		}
		r.tools[t.OwnerID] = append(r.tools[t.OwnerID], t)
	}

	return r, nil
}

// Resolve returns the descriptor for an agent id.
func (r *Registry) Resolve(agentID string) (model.AgentDescriptor, error) {
	a, ok := r.agents[agentID]
	if !ok {
		return model.AgentDescriptor{}, fmt.Errorf("%w: %s", model.ErrUnknownAgent, agentID)
	}
	return a, nil
}

// Primary returns the orchestrator-role descriptor.
func (r *Registry) Primary() model.AgentDescriptor {
	return r.agents[r.primaryID]
}

// ListTools returns the connected tools held by an agent, in registration
// order. Specialists always return an empty list.
func (r *Registry) ListTools(forAgentID string) []model.ConnectedTool {
	return r.tools[forAgentID]
}

// RegistryFromConfig builds the registry named by configuration. Each
// specialist is exposed to the primary agent as one connected tool.
func RegistryFromConfig(cfg model.AgentConfig) (*Registry, error) {
	if cfg.PrimaryID == "" {
		return nil, fmt.Errorf("%w: agent.primary_id not configured", model.ErrUnknownAgent)
	}

	agents := []model.AgentDescriptor{{
		ID:         cfg.PrimaryID,
		Name:       cfg.PrimaryName,
		Capability: cfg.PrimaryCapability,
		Role:       model.RoleOrchestrator,
	}}

	var tools []model.ConnectedTool
	for _, s := range cfg.Specialists {
		s.Role = model.RoleSpecialist
		agents = append(agents, s)
		tools = append(tools, model.ConnectedTool{
			OwnerID:     cfg.PrimaryID,
			TargetID:    s.ID,
			Name:        s.Name,
			Description: s.Capability,
		})
	}

	return NewRegistry(agents, tools)
}
