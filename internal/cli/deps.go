package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/veritas/internal/agent"
	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/search"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// loadConfig builds the effective configuration: defaults, then config
// file / VERITAS_* environment overrides, then API keys from their
// conventional environment variables.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("agent.host"); v != "" {
		cfg.Agent.Host = v
	}
	if v := viper.GetString("agent.primary_id"); v != "" {
		cfg.Agent.PrimaryID = v
	}
	if v := viper.GetString("agent.base_url"); v != "" {
		cfg.Agent.BaseURL = v
	}
	if v := viper.GetDuration("agent.poll_interval"); v > 0 {
		cfg.Agent.PollInterval = v
	}
	if v := viper.GetDuration("agent.run_timeout"); v > 0 {
		cfg.Agent.RunTimeout = v
	}
	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}
	if v := viper.GetDuration("search.timeout"); v > 0 {
		cfg.Search.Timeout = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}

	var specialists []model.AgentDescriptor
	if err := viper.UnmarshalKey("agent.specialists", &specialists); err == nil && len(specialists) > 0 {
		cfg.Agent.Specialists = specialists
	}

	cfg.Search.APIKey = os.Getenv("TAVILY_API_KEY")
	cfg.Agent.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Output.Verbose = verbose

	return cfg
}

// newLogger builds the CLI logger: human-readable at debug level when
// verbose, silent otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildPipeline wires the pipeline from configuration: search provider,
// retriever, agent registry, host, and optional verdict cache. Every
// component is constructed here and injected; nothing is process-global.
func buildPipeline(cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	// The memory host needs no provisioned agent ids.
	if cfg.Agent.Host == "memory" && cfg.Agent.PrimaryID == "" {
		cfg.Agent.PrimaryID = "memory-orchestrator"
	}

	registry, err := agent.RegistryFromConfig(cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	host, err := agent.NewHost(cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("build agent host: %w", err)
	}

	provider := search.NewTavily(cfg.Search)
	retriever := search.NewRetriever(provider, cfg.Search.MaxResults, logger)

	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	return pipeline.NewPipeline(cfg, retriever, registry, host, store, logger), nil
}

// defaultCacheDir is where the disk cache lives when enabled.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".veritas", "cache")
}
