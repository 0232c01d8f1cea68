// Package config loads strandmine's runtime configuration from defaults,
// a .env file, the process environment, and an optional YAML route file.
// Values in .env override the process environment (godotenv Overload), and
// the YAML file overrides both.
package config

import (
	"strings"

	"strandmine/internal/objectstore"
)

// RouteConfig names one configured (src, tgt) language pair and the output
// file prefix its `.src/.tgt/.annotation/.bi` quartet is written under.
type RouteConfig struct {
	Src       string `yaml:"src"`
	Tgt       string `yaml:"tgt"`
	OutPrefix string `yaml:"out_prefix"`
}

// ClassifierConfig selects the optional maxent-style collaborator.
// It is never used to gate output — only to annotate it — regardless of
// Provider.
type ClassifierConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // "anthropic" or "openai"; the null classifier is used when Enabled is false
	APIKey   string `yaml:"-"`        // never sourced from YAML; env/. env only
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// ArchiveConfig enables copying output files to object storage after a run.
type ArchiveConfig struct {
	Enabled bool                 `yaml:"enabled"`
	S3      objectstore.S3Config `yaml:"-"`
}

// DistributorConfig enables sharding document-pair processing across a
// Kafka topic instead of a local worker pool.
type DistributorConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// ObsConfig mirrors observability.ObsConfig so this package does not need
// to import the observability package just to describe its inputs.
type ObsConfig struct {
	OTLP           string `yaml:"otlp_endpoint"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

// Config is strandmine's complete runtime configuration.
type Config struct {
	// GridSizeLimit is the DP-grid guard: |S|*|T| above this is refused.
	GridSizeLimit int64 `yaml:"grid_size_limit"`

	// MinAlphaTokens and RequireEndPunctuation tune the optional C7 filters.
	MinAlphaTokens        int  `yaml:"min_alpha_tokens"`
	RequireEndPunctuation bool `yaml:"require_end_punctuation"`

	// Workers bounds the local goroutine pool; ignored when Distributor is enabled.
	Workers int `yaml:"workers"`

	Routes      []RouteConfig      `yaml:"routes"`
	Classifier  ClassifierConfig   `yaml:"classifier"`
	Archive     ArchiveConfig      `yaml:"archive"`
	Distributor DistributorConfig `yaml:"distributor"`
	Obs         ObsConfig          `yaml:"observability"`
}

// RouteFor returns the configured route for (src, tgt), if any. A route
// side of "*" matches any language — used by the CLI's single-prefix
// fallback when no explicit route table is configured.
func (c Config) RouteFor(src, tgt string) (RouteConfig, bool) {
	src, tgt = strings.ToLower(src), strings.ToLower(tgt)
	for _, r := range c.Routes {
		rSrc, rTgt := strings.ToLower(r.Src), strings.ToLower(r.Tgt)
		if (rSrc == src || rSrc == "*") && (rTgt == tgt || rTgt == "*") {
			return r, true
		}
	}
	return RouteConfig{}, false
}

func defaults() Config {
	return Config{
		GridSizeLimit:         1_000_000_000,
		MinAlphaTokens:        5,
		RequireEndPunctuation: true,
		Workers:               0, // resolved to runtime.NumCPU() by the caller when 0
	}
}
