package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ppiankov/veritas/internal/agent"
	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
	"go.uber.org/zap"
)

// EvidenceRetriever is the retrieval stage consumed by the pipeline.
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, claim string, includeDomains, excludeDomains []string) (*model.EvidenceSet, error)
}

// Pipeline orchestrates one claim verification: retrieve evidence, open an
// isolated session, execute the primary agent, extract the verdict.
// Independent Verify calls share only the read-only registry; evidence and
// sessions are per-call, so no locking is needed for them.
type Pipeline struct {
	retriever EvidenceRetriever
	registry  *agent.Registry
	host      agent.Host
	store     cache.Cache // Optional verdict cache (nil = disabled)
	config    *model.Config
	logger    *zap.Logger
}

// NewPipeline creates a pipeline from explicitly injected components.
func NewPipeline(cfg *model.Config, retriever EvidenceRetriever, registry *agent.Registry, host agent.Host, store cache.Cache, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		retriever: retriever,
		registry:  registry,
		host:      host,
		store:     store,
		config:    cfg,
		logger:    logger,
	}
}

// Verify runs the full pipeline for one claim. It always returns a
// Verdict value: every fault, including a panic in a downstream stage, is
// converted into a failed Verdict at this boundary.
func (p *Pipeline) Verify(ctx context.Context, rawClaim string) (verdict model.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("verify panicked", zap.Any("cause", r))
			verdict = model.FailedVerdict(rawClaim, fmt.Errorf("%w: %v", model.ErrInternal, r))
		}
	}()

	claim, err := model.NormalizeClaim(rawClaim)
	if err != nil {
		return model.FailedVerdict(rawClaim, err)
	}

	if cached, ok := p.cachedVerdict(claim); ok {
		p.logger.Debug("verdict served from cache", zap.String("claim", claim))
		return cached
	}

	// Phase 1: evidence retrieval. Provider failures and empty result
	// sets degrade the grounding, they do not stop the pipeline. A
	// missing credential does.
	evidence, err := p.retriever.Retrieve(ctx, claim, p.config.Search.IncludeDomains, p.config.Search.ExcludeDomains)
	if err != nil {
		if errors.Is(err, model.ErrMissingCredential) || errors.Is(err, model.ErrInvalidInput) {
			return model.FailedVerdict(claim, err)
		}
		evidence = &model.EvidenceSet{
			Claim:              claim,
			RetrievalSucceeded: false,
			RetrievalError:     err.Error(),
		}
	}

	grounding := GroundingMessage(claim, evidence)

	// Phase 2: one single-use session against the primary agent. Any
	// delegation to specialists happens host-side inside this run. An
	// unknown agent id fails before any run is attempted; a different
	// agent is never silently substituted.
	primary := p.registry.Primary()
	if id := p.config.Agent.PrimaryID; id != "" {
		primary, err = p.registry.Resolve(id)
		if err != nil {
			return model.FailedVerdict(claim, err)
		}
	}

	sess := agent.NewSession(p.host, p.config.Agent.PollInterval, p.config.Agent.RunTimeout, p.logger)
	if err := sess.Open(ctx); err != nil {
		return model.FailedVerdict(claim, err)
	}
	if _, err := sess.Append(ctx, model.RoleUser, grounding); err != nil {
		return model.FailedVerdict(claim, err)
	}

	run, err := sess.Execute(ctx, primary.ID)
	if err != nil {
		return model.FailedVerdict(claim, err)
	}
	if run.Status == model.RunFailed {
		return model.Verdict{
			Claim:                   claim,
			SupportingEvidenceCount: len(evidence.Results),
			Succeeded:               false,
			Error:                   run.LastError,
		}
	}

	messages, err := sess.ReadMessages(ctx)
	if err != nil {
		return model.FailedVerdict(claim, err)
	}

	verdict = model.Verdict{
		Claim:                   claim,
		SupportingEvidenceCount: len(evidence.Results),
		Text:                    ExtractResponse(messages),
		Succeeded:               true,
	}
	if verdict.Text == "" {
		// A completed run with no visible text is a result, not a
		// pipeline fault.
		verdict.Error = fmt.Sprintf("%v: run completed without agent output", model.ErrEmptyResponse)
	}

	p.storeVerdict(claim, verdict)

	p.logger.Info("claim verified",
		zap.String("claim", claim),
		zap.Int("evidence", verdict.SupportingEvidenceCount),
		zap.Bool("success", verdict.Succeeded))

	return verdict
}

func (p *Pipeline) cachedVerdict(claim string) (model.Verdict, bool) {
	if p.store == nil {
		return model.Verdict{}, false
	}
	data, found := p.store.Get(cache.Key(claim))
	if !found {
		return model.Verdict{}, false
	}
	var v model.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		_ = p.store.Delete(cache.Key(claim))
		return model.Verdict{}, false
	}
	return v, true
}

func (p *Pipeline) storeVerdict(claim string, v model.Verdict) {
	if p.store == nil || !v.Succeeded || v.Text == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.store.Set(cache.Key(claim), data, 0); err != nil {
		p.logger.Warn("verdict cache write failed", zap.Error(err))
	}
}
