package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// Load reads configuration from built-in defaults, then .env, then the
// process environment, then an optional YAML route file. Overload
// semantics: .env values take precedence over whatever was already in
// the process environment, so a repo-local .env deterministically
// controls local runs.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Overload()

	cfg := defaults()

	if v := strings.TrimSpace(os.Getenv("STRANDMINE_GRID_SIZE_LIMIT")); v != "" {
		n, err := parseInt64(v)
		if err != nil {
			return cfg, fmt.Errorf("STRANDMINE_GRID_SIZE_LIMIT: %w", err)
		}
		cfg.GridSizeLimit = n
	}
	if v := strings.TrimSpace(os.Getenv("STRANDMINE_MIN_ALPHA_TOKENS")); v != "" {
		n, err := parseInt(v)
		if err != nil {
			return cfg, fmt.Errorf("STRANDMINE_MIN_ALPHA_TOKENS: %w", err)
		}
		cfg.MinAlphaTokens = n
	}
	if v := strings.TrimSpace(os.Getenv("STRANDMINE_REQUIRE_END_PUNCTUATION")); v != "" {
		cfg.RequireEndPunctuation = boolFromEnv(v, cfg.RequireEndPunctuation)
	}
	if v := strings.TrimSpace(os.Getenv("STRANDMINE_WORKERS")); v != "" {
		n, err := parseInt(v)
		if err != nil {
			return cfg, fmt.Errorf("STRANDMINE_WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	cfg.Classifier.Enabled = boolFromEnv(os.Getenv("STRANDMINE_CLASSIFIER_ENABLED"), cfg.Classifier.Enabled)
	cfg.Classifier.Provider = firstNonEmpty(os.Getenv("STRANDMINE_CLASSIFIER_PROVIDER"), cfg.Classifier.Provider)
	cfg.Classifier.Model = firstNonEmpty(os.Getenv("STRANDMINE_CLASSIFIER_MODEL"), cfg.Classifier.Model)
	cfg.Classifier.BaseURL = firstNonEmpty(os.Getenv("STRANDMINE_CLASSIFIER_BASE_URL"), cfg.Classifier.BaseURL)
	switch cfg.Classifier.Provider {
	case "anthropic":
		cfg.Classifier.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		cfg.Classifier.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.Archive.Enabled = boolFromEnv(os.Getenv("STRANDMINE_ARCHIVE_ENABLED"), cfg.Archive.Enabled)
	cfg.Archive.S3.Bucket = os.Getenv("STRANDMINE_ARCHIVE_BUCKET")
	cfg.Archive.S3.Region = firstNonEmpty(os.Getenv("STRANDMINE_ARCHIVE_REGION"), "us-east-1")
	cfg.Archive.S3.Endpoint = os.Getenv("STRANDMINE_ARCHIVE_ENDPOINT")
	cfg.Archive.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Archive.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.Archive.S3.Prefix = os.Getenv("STRANDMINE_ARCHIVE_PREFIX")

	cfg.Distributor.Enabled = boolFromEnv(os.Getenv("STRANDMINE_DISTRIBUTOR_ENABLED"), cfg.Distributor.Enabled)
	if v := strings.TrimSpace(os.Getenv("STRANDMINE_KAFKA_BROKERS")); v != "" {
		cfg.Distributor.Brokers = strings.Split(v, ",")
	}
	cfg.Distributor.Topic = firstNonEmpty(os.Getenv("STRANDMINE_KAFKA_TOPIC"), "strandmine.jobs")
	cfg.Distributor.GroupID = firstNonEmpty(os.Getenv("STRANDMINE_KAFKA_GROUP"), "strandmine-workers")

	cfg.Obs.OTLP = os.Getenv("STRANDMINE_OTLP_ENDPOINT")
	cfg.Obs.ServiceName = firstNonEmpty(os.Getenv("STRANDMINE_SERVICE_NAME"), "strandmine")
	cfg.Obs.ServiceVersion = firstNonEmpty(os.Getenv("STRANDMINE_SERVICE_VERSION"), "dev")
	cfg.Obs.Environment = firstNonEmpty(os.Getenv("STRANDMINE_ENVIRONMENT"), "development")

	if yamlPath != "" {
		b, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("read config file %q: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %q: %w", yamlPath, err)
		}
	}

	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func boolFromEnv(v string, fallback bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
