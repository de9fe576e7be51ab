package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/veritas/internal/agent"
	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
)

// MockRetriever implements EvidenceRetriever for testing.
type MockRetriever struct {
	mu       sync.Mutex
	calls    int
	evidence *model.EvidenceSet
	err      error
}

func (m *MockRetriever) Retrieve(ctx context.Context, claim string, include, exclude []string) (*model.EvidenceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.evidence != nil {
		return m.evidence, nil
	}
	return &model.EvidenceSet{Claim: claim, RetrievalSucceeded: true}, nil
}

func (m *MockRetriever) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// panicRetriever blows up to exercise the recover boundary.
type panicRetriever struct{}

func (panicRetriever) Retrieve(ctx context.Context, claim string, include, exclude []string) (*model.EvidenceSet, error) {
	panic("retrieval stage exploded")
}

// stuckHost never completes a run, forcing the polling budget to expire.
type stuckHost struct {
	*agent.MemoryHost
}

func (h *stuckHost) RetrieveRun(ctx context.Context, sessionID, runID string) (model.RunStatus, string, error) {
	return model.RunInProgress, "", nil
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Agent.Host = "memory"
	cfg.Agent.PrimaryID = "orc-1"
	cfg.Agent.PollInterval = time.Millisecond
	cfg.Agent.RunTimeout = 200 * time.Millisecond
	return cfg
}

func testRegistry(t *testing.T) *agent.Registry {
	t.Helper()
	reg, err := agent.NewRegistry(
		[]model.AgentDescriptor{
			{ID: "orc-1", Name: "Orchestrator", Capability: "verifies claims", Role: model.RoleOrchestrator},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	return reg
}

func evidenceSet(claim string, n int) *model.EvidenceSet {
	ev := &model.EvidenceSet{Claim: claim, RetrievalSucceeded: true}
	for i := 0; i < n; i++ {
		ev.Results = append(ev.Results, model.SearchResult{
			Title:   fmt.Sprintf("Result %d", i+1),
			URL:     fmt.Sprintf("https://example.com/%d", i+1),
			Content: "some evidence",
			Source:  "example.com",
		})
	}
	return ev
}

func TestVerify_Success(t *testing.T) {
	retriever := &MockRetriever{evidence: evidenceSet("the earth is round", 3)}
	var seenGrounding string
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		if len(messages) > 0 {
			seenGrounding = messages[0].Text
		}
		return "Verdict: TRUE. The claim is supported.", nil
	})

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "the earth is round")

	if !v.Succeeded {
		t.Fatalf("Expected success, got error %q", v.Error)
	}
	if v.SupportingEvidenceCount != 3 {
		t.Errorf("Expected 3 supporting results, got %d", v.SupportingEvidenceCount)
	}
	if v.Text != "Verdict: TRUE. The claim is supported." {
		t.Errorf("Unexpected verdict text: %q", v.Text)
	}
	if !strings.Contains(seenGrounding, "1. Title: Result 1") {
		t.Errorf("Agent did not receive the evidence listing, got %q", seenGrounding)
	}
}

func TestVerify_EmptyClaim(t *testing.T) {
	retriever := &MockRetriever{}
	host := agent.NewMemoryHost(nil)

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "   ")

	if v.Succeeded {
		t.Error("Expected failure for blank claim")
	}
	if retriever.Calls() != 0 {
		t.Errorf("Blank claim must not trigger retrieval, got %d calls", retriever.Calls())
	}
}

func TestVerify_ZeroResultsStillVerifies(t *testing.T) {
	retriever := &MockRetriever{evidence: &model.EvidenceSet{
		Claim:              "obscure claim",
		RetrievalSucceeded: false,
		RetrievalError:     model.ErrNoResults.Error(),
	}}
	var seenGrounding string
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		seenGrounding = messages[0].Text
		return "Verdict: UNVERIFIABLE.", nil
	})

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "obscure claim")

	if !v.Succeeded {
		t.Fatalf("Degraded evidence must not fail the pipeline, got error %q", v.Error)
	}
	if v.SupportingEvidenceCount != 0 {
		t.Errorf("Expected 0 supporting results, got %d", v.SupportingEvidenceCount)
	}
	if !strings.Contains(seenGrounding, "No verified evidence was found") {
		t.Errorf("Agent must be told no evidence exists, got %q", seenGrounding)
	}
}

func TestVerify_RetrieverErrorDegrades(t *testing.T) {
	retriever := &MockRetriever{err: fmt.Errorf("%w: connection refused", model.ErrProvider)}
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		return "Verdict: UNVERIFIABLE.", nil
	})

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if !v.Succeeded {
		t.Fatalf("Provider failure must degrade, not fail, got error %q", v.Error)
	}
	if v.SupportingEvidenceCount != 0 {
		t.Errorf("Expected 0 supporting results, got %d", v.SupportingEvidenceCount)
	}
}

func TestVerify_MissingCredentialFails(t *testing.T) {
	retriever := &MockRetriever{err: fmt.Errorf("%w: TAVILY_API_KEY not set", model.ErrMissingCredential)}
	var runs int
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		runs++
		return "should not run", nil
	})

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if v.Succeeded {
		t.Error("Missing credential must fail the verdict")
	}
	if !strings.Contains(v.Error, "missing credential") {
		t.Errorf("Expected credential error, got %q", v.Error)
	}
	if runs != 0 {
		t.Errorf("No run should start without credentials, got %d", runs)
	}
}

func TestVerify_UnknownAgent(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.PrimaryID = "ghost-agent"
	retriever := &MockRetriever{evidence: evidenceSet("c", 1)}
	var runs int
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		runs++
		return "should not run", nil
	})

	p := NewPipeline(cfg, retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if v.Succeeded {
		t.Error("Unknown agent id must fail the verdict")
	}
	if !strings.Contains(v.Error, "unknown agent") {
		t.Errorf("Expected unknown agent error, got %q", v.Error)
	}
	if runs != 0 {
		t.Errorf("No run should start for an unknown agent, got %d", runs)
	}
}

func TestVerify_RunTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.RunTimeout = 20 * time.Millisecond
	retriever := &MockRetriever{evidence: evidenceSet("c", 2)}
	host := &stuckHost{MemoryHost: agent.NewMemoryHost(nil)}

	p := NewPipeline(cfg, retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if v.Succeeded {
		t.Error("Expected failed verdict after run timeout")
	}
	if !strings.Contains(v.Error, "run timed out") {
		t.Errorf("Expected timeout in verdict error, got %q", v.Error)
	}
	if v.SupportingEvidenceCount != 2 {
		t.Errorf("Timeout verdict must keep the evidence count, got %d", v.SupportingEvidenceCount)
	}
}

func TestVerify_PanicRecovered(t *testing.T) {
	host := agent.NewMemoryHost(nil)

	p := NewPipeline(testConfig(), panicRetriever{}, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if v.Succeeded {
		t.Error("A panic must surface as a failed verdict")
	}
	if !strings.Contains(v.Error, "internal error") {
		t.Errorf("Expected internal error, got %q", v.Error)
	}
}

func TestVerify_EmptyAgentResponse(t *testing.T) {
	retriever := &MockRetriever{evidence: evidenceSet("c", 1)}
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		return "", nil
	})

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, nil, nil)
	v := p.Verify(context.Background(), "some claim")

	if !v.Succeeded {
		t.Fatalf("An empty reply is a result, not a fault, got error %q", v.Error)
	}
	if v.Text != "" {
		t.Errorf("Expected empty verdict text, got %q", v.Text)
	}
	if !strings.Contains(v.Error, "empty response") {
		t.Errorf("Expected empty response note, got %q", v.Error)
	}
}

func TestVerify_CacheHitSkipsRetrieval(t *testing.T) {
	retriever := &MockRetriever{evidence: evidenceSet("cached claim", 1)}
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		return "Verdict: TRUE.", nil
	})
	store := cache.NewMemoryCache(time.Minute, time.Minute)

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, store, nil)

	first := p.Verify(context.Background(), "cached claim")
	if !first.Succeeded {
		t.Fatalf("First verification failed: %q", first.Error)
	}
	second := p.Verify(context.Background(), "Cached Claim") // key is case-insensitive
	if !second.Succeeded {
		t.Fatalf("Cached verification failed: %q", second.Error)
	}

	if retriever.Calls() != 1 {
		t.Errorf("Expected 1 retrieval (second served from cache), got %d", retriever.Calls())
	}
	if second.Text != first.Text {
		t.Errorf("Cached verdict text mismatch: %q vs %q", second.Text, first.Text)
	}
}

func TestVerify_FailedVerdictNotCached(t *testing.T) {
	retriever := &MockRetriever{evidence: evidenceSet("c", 1)}
	host := agent.NewMemoryHost(func(messages []model.Message) (string, error) {
		return "", fmt.Errorf("model overloaded")
	})
	store := cache.NewMemoryCache(time.Minute, time.Minute)

	p := NewPipeline(testConfig(), retriever, testRegistry(t), host, store, nil)

	v := p.Verify(context.Background(), "some claim")
	if v.Succeeded {
		t.Fatal("Expected failed verdict from responder error")
	}
	if _, found := store.Get(cache.Key("some claim")); found {
		t.Error("Failed verdicts must not be cached")
	}
}
