package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholarsync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig identifies the researcher whose works are listed.
type RegistryConfig struct {
	// ORCIDID is the researcher identifier (e.g. "0000-0002-2537-5082").
	ORCIDID string `json:"orcid_id" yaml:"orcid_id"`
}

// EnrichmentConfig holds settings for the aggregator lookups.
type EnrichmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is sent to OpenAlex for polite pool access. Optional.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// BatchSize is the number of concurrent lookups per batch (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pause between batches (default 1s offline, 0 live).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// MaxRetries bounds retries on HTTP 429 (0 uses the httputil default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MemoDB is the SQLite file that memoises successful lookups.
	// Empty disables the memo.
	MemoDB string `json:"memo_db,omitempty" yaml:"memo_db,omitempty"`

	// MemoMaxAge is how long a memoised lookup stays valid (0 = forever).
	MemoMaxAge time.Duration `json:"memo_max_age" yaml:"memo_max_age"`
}

// CacheConfig locates the precomputed JSON documents the site reads.
type CacheConfig struct {
	// DataDir holds publications.json and collaborators.json
	// (default "assets/data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// SiteConfig locates the static pages whose headline numbers get patched.
type SiteConfig struct {
	// SiteDir is the site root containing index.html and publications.html.
	SiteDir string `json:"site_dir" yaml:"site_dir"`

	// HighlightAuthor is the family name emphasised in listings.
	HighlightAuthor string `json:"highlight_author,omitempty" yaml:"highlight_author,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Registry   RegistryConfig   `json:"registry" yaml:"registry"`
	Enrichment EnrichmentConfig `json:"enrichment" yaml:"enrichment"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Site       SiteConfig       `json:"site" yaml:"site"`
}
