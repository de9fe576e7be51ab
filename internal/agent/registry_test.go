package agent

import (
	"errors"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func testAgents() []model.AgentDescriptor {
	return []model.AgentDescriptor{
		{ID: "orchestrator-1", Name: "SearchAgent", Role: model.RoleOrchestrator},
		{ID: "specialist-1", Name: "AnalysisAgent", Capability: "Analyzes evidence quality", Role: model.RoleSpecialist},
		{ID: "specialist-2", Name: "VerdictAgent", Capability: "Formulates the verdict", Role: model.RoleSpecialist},
	}
}

func TestNewRegistry_ValidTopology(t *testing.T) {
	tools := []model.ConnectedTool{
		{OwnerID: "orchestrator-1", TargetID: "specialist-1", Name: "analysis_agent"},
		{OwnerID: "orchestrator-1", TargetID: "specialist-2", Name: "verdict_agent"},
	}

	r, err := NewRegistry(testAgents(), tools)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Primary().ID != "orchestrator-1" {
		t.Errorf("expected primary orchestrator-1, got %s", r.Primary().ID)
	}

	got := r.ListTools("orchestrator-1")
	if len(got) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(got))
	}
	if got[0].Name != "analysis_agent" || got[1].Name != "verdict_agent" {
		t.Error("tool registration order not preserved")
	}

	if tools := r.ListTools("specialist-1"); len(tools) != 0 {
		t.Errorf("specialist must hold no tools, got %d", len(tools))
	}
}

func TestNewRegistry_NoOrchestrator(t *testing.T) {
	agents := []model.AgentDescriptor{
		{ID: "specialist-1", Role: model.RoleSpecialist},
	}
	_, err := NewRegistry(agents, nil)
	if !errors.Is(err, model.ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestNewRegistry_MultipleOrchestrators(t *testing.T) {
	agents := []model.AgentDescriptor{
		{ID: "a", Role: model.RoleOrchestrator},
		{ID: "b", Role: model.RoleOrchestrator},
	}
	if _, err := NewRegistry(agents, nil); err == nil {
		t.Fatal("expected error for multiple orchestrators")
	}
}

func TestNewRegistry_SpecialistHoldingTool(t *testing.T) {
	tools := []model.ConnectedTool{
		{OwnerID: "specialist-1", TargetID: "specialist-2", Name: "nested"},
	}
	if _, err := NewRegistry(testAgents(), tools); err == nil {
		t.Fatal("expected recursive delegation to be rejected at registration")
	}
}

func TestNewRegistry_DanglingToolTarget(t *testing.T) {
	tools := []model.ConnectedTool{
		{OwnerID: "orchestrator-1", TargetID: "ghost", Name: "ghost_agent"},
	}
	_, err := NewRegistry(testAgents(), tools)
	if !errors.Is(err, model.ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent for dangling target, got %v", err)
	}
}

func TestNewRegistry_ToolTargetingOrchestrator(t *testing.T) {
	agents := append(testAgents(), model.AgentDescriptor{ID: "specialist-3", Role: model.RoleSpecialist})
	tools := []model.ConnectedTool{
		{OwnerID: "orchestrator-1", TargetID: "orchestrator-1", Name: "self"},
	}
	if _, err := NewRegistry(agents, tools); err == nil {
		t.Fatal("expected tool targeting the orchestrator to be rejected")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r, err := NewRegistry(testAgents(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	desc, err := r.Resolve("specialist-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Name != "AnalysisAgent" {
		t.Errorf("expected AnalysisAgent, got %s", desc.Name)
	}

	_, err = r.Resolve("nope")
	if !errors.Is(err, model.ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestRegistryFromConfig(t *testing.T) {
	cfg := model.AgentConfig{
		PrimaryID:   "asst_123",
		PrimaryName: "SearchAgent",
		Specialists: []model.AgentDescriptor{
			{ID: "asst_456", Name: "priority_agent", Capability: "Assess the priority"},
		},
	}

	r, err := RegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Primary().ID != "asst_123" {
		t.Errorf("expected primary asst_123, got %s", r.Primary().ID)
	}

	tools := r.ListTools("asst_123")
	if len(tools) != 1 {
		t.Fatalf("expected 1 connected tool, got %d", len(tools))
	}
	if tools[0].TargetID != "asst_456" {
		t.Errorf("expected tool target asst_456, got %s", tools[0].TargetID)
	}

	spec, err := r.Resolve("asst_456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Role != model.RoleSpecialist {
		t.Errorf("expected specialist role, got %s", spec.Role)
	}
}

func TestRegistryFromConfig_NoPrimary(t *testing.T) {
	_, err := RegistryFromConfig(model.AgentConfig{})
	if !errors.Is(err, model.ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
}
