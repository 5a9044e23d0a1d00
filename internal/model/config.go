package model

import "time"

// Config holds the complete artbot configuration
type Config struct {
	HTTP           HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache          CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Source         SourceConfig      `yaml:"source" mapstructure:"source"`
	Registry       RegistryConfig    `yaml:"registry" mapstructure:"registry"`
	Concurrency    ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit      RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Output         OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM            LLMConfig         `yaml:"llm" mapstructure:"llm"`
	RulesFile      string            `yaml:"rules_file,omitempty" mapstructure:"rules_file"`           // optional medium rule table override
	CategoriesFile string            `yaml:"categories_file,omitempty" mapstructure:"categories_file"` // optional category mapping override
}

// HTTPConfig controls all outbound HTTP clients
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the layered response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SourceConfig locates the record source (collection API) and local lists
type SourceConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Instance       string `yaml:"instance" mapstructure:"instance"` // prod or uat
	ListsDir       string `yaml:"lists_dir" mapstructure:"lists_dir"`
	Locale         string `yaml:"locale" mapstructure:"locale"`
	GalleryBaseURL string `yaml:"gallery_base_url" mapstructure:"gallery_base_url"` // public gallery page prefix
}

// RegistryConfig locates the knowledge base and its query service
type RegistryConfig struct {
	APIURL     string `yaml:"api_url" mapstructure:"api_url"`
	SPARQLURL  string `yaml:"sparql_url" mapstructure:"sparql_url"`
	WaybackURL string `yaml:"wayback_url" mapstructure:"wayback_url"`
	IDProperty string `yaml:"id_property" mapstructure:"id_property"` // property holding accession numbers
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig controls per-host request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls trial-mode rendering and verbosity
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Format  string `yaml:"format" mapstructure:"format"` // json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional description suggester. Disabled unless a
// provider is set; never affects normalization or upload decisions.
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty" mapstructure:"provider"`
	Model     string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Artbot/0.2 (+https://github.com/wikicurator/artbot)",
			MaxBodyBytes: 4_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".artbot-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Source: SourceConfig{
			Instance:       "prod",
			ListsDir:       "lists",
			Locale:         "en-GB",
			GalleryBaseURL: "https://smartify.org/artworks",
		},
		Registry: RegistryConfig{
			APIURL:     "https://www.wikidata.org/w/api.php",
			SPARQLURL:  "https://query.wikidata.org/sparql",
			WaybackURL: "https://web.archive.org/save",
			IDProperty: "P217",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{
			Dir:    "artbot-records",
			Format: "json",
		},
		LLM: LLMConfig{
			MaxTokens: 200,
		},
	}
}
