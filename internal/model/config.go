package model

import "time"

// Config holds the complete pipeline configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Agent  AgentConfig  `yaml:"agent"`
	Cache  CacheConfig  `yaml:"cache"`
	Server ServerConfig `yaml:"server"`
	Output OutputConfig `yaml:"output"`
}

// SearchConfig configures the evidence retrieval stage.
type SearchConfig struct {
	// APIKey for the Tavily search API (TAVILY_API_KEY). Never persisted.
	APIKey string `yaml:"-"`

	Timeout        time.Duration `yaml:"timeout"`
	MaxResults     int           `yaml:"max_results"`
	IncludeDomains []string      `yaml:"include_domains,omitempty"`
	ExcludeDomains []string      `yaml:"exclude_domains,omitempty"`

	// Outbound rate limiting per provider host
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// Proxy settings (fall back to environment when empty)
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// AgentConfig configures the reasoning-agent host and registry. Agents are
// provisioned by an external registration step; this only names them.
type AgentConfig struct {
	// Host selects the backend: "openai" or "memory" (local dry runs).
	Host string `yaml:"host"`

	// APIKey for the agent host (OPENAI_API_KEY). Never persisted.
	APIKey string `yaml:"-"`

	// BaseURL overrides the host endpoint (Azure-style deployments).
	BaseURL string `yaml:"base_url,omitempty"`

	// PrimaryID is the orchestrator-role agent id.
	PrimaryID string `yaml:"primary_id"`

	// PrimaryName and PrimaryCapability document the primary agent.
	PrimaryName       string `yaml:"primary_name"`
	PrimaryCapability string `yaml:"primary_capability"`

	// Specialists the primary agent may delegate to via connected tools.
	Specialists []AgentDescriptor `yaml:"specialists,omitempty"`

	// Run polling
	PollInterval time.Duration `yaml:"poll_interval"`
	RunTimeout   time.Duration `yaml:"run_timeout"` // Cumulative wait budget
}

// CacheConfig configures the optional verdict cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir,omitempty"` // Empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ServerConfig configures the HTTP front-end.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Timeout:           15 * time.Second,
			MaxResults:        MaxSearchResults,
			RequestsPerSecond: 1.0,
			Burst:             2,
		},
		Agent: AgentConfig{
			Host:              "openai",
			PrimaryName:       "SearchAgent",
			PrimaryCapability: "Research verification agent: analyzes a claim against retrieved evidence and produces a verdict",
			PollInterval:      2 * time.Second,
			RunTimeout:        90 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
		},
		Output: OutputConfig{},
	}
}
