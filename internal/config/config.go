// Package config loads the node runtime configuration from config/<env>.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the osvector runtime configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	OpenSearch OpenSearchConfig `yaml:"opensearch"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Cache      CacheConfig      `yaml:"cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxBodyMB       int `yaml:"max_body_mb"`
}

// OpenSearchConfig holds index mapping defaults and client transport settings.
// Cluster URL and credentials arrive with each invocation.
type OpenSearchConfig struct {
	Engine             string `yaml:"engine"`     // nmslib, faiss, lucene
	SpaceType          string `yaml:"space_type"` // l2, cosinesimil, innerproduct
	EFSearch           int    `yaml:"ef_search"`
	EFConstruction     int    `yaml:"ef_construction"`
	M                  int    `yaml:"m"`
	BulkSize           int    `yaml:"bulk_size"`
	RequestTimeoutSec  int    `yaml:"request_timeout_sec"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`

	// Health optionally names a cluster pinged by /health.
	Health OpenSearchHealthConfig `yaml:"health"`
}

// OpenSearchHealthConfig identifies the cluster checked by /health.
type OpenSearchHealthConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// EmbeddingConfig holds embedding settings.
type EmbeddingConfig struct {
	Default      string                      `yaml:"default"` // vectorizer used when no handle is given
	MaxBatchSize int                         `yaml:"max_batch_size"`
	Providers    map[string]ProviderConfig   `yaml:"providers"`
	Vectorizers  map[string]VectorizerConfig `yaml:"vectorizers"`
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// VectorizerConfig holds vectorizer settings. Each vectorizer is exposed as
// an embedding handle of the same name.
type VectorizerConfig struct {
	Provider            string `yaml:"provider"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
}

// CacheConfig holds the optional embedding cache settings. No addrs disables it.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"` // single node, no cluster discovery
	TTLSec           int      `yaml:"ttl_sec"`    // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether an embedding cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references and applying defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyMB <= 0 {
		c.HTTP.MaxBodyMB = 32
	}
	if c.OpenSearch.Engine == "" {
		c.OpenSearch.Engine = "nmslib"
	}
	if c.OpenSearch.SpaceType == "" {
		c.OpenSearch.SpaceType = "l2"
	}
	if c.OpenSearch.EFSearch <= 0 {
		c.OpenSearch.EFSearch = 512
	}
	if c.OpenSearch.EFConstruction <= 0 {
		c.OpenSearch.EFConstruction = 512
	}
	if c.OpenSearch.M <= 0 {
		c.OpenSearch.M = 16
	}
	if c.OpenSearch.BulkSize <= 0 {
		c.OpenSearch.BulkSize = 500
	}
	if c.OpenSearch.RequestTimeoutSec <= 0 {
		c.OpenSearch.RequestTimeoutSec = 60
	}
	if c.Embedding.MaxBatchSize <= 0 {
		c.Embedding.MaxBatchSize = 256
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.OpenSearch.Engine {
	case "nmslib", "faiss", "lucene":
	default:
		return fmt.Errorf("opensearch.engine must be nmslib, faiss or lucene, got %q", c.OpenSearch.Engine)
	}
	switch c.OpenSearch.SpaceType {
	case "l2", "cosinesimil", "innerproduct":
	default:
		return fmt.Errorf(
			"opensearch.space_type must be l2, cosinesimil or innerproduct, got %q", c.OpenSearch.SpaceType,
		)
	}
	if c.Cache.TTLSec < 0 {
		return errors.New("cache.ttl_sec must not be negative")
	}
	for name, v := range c.Embedding.Vectorizers {
		if v.Model == "" {
			return fmt.Errorf("embedding.vectorizers.%s.model is required", name)
		}
		if _, ok := c.Embedding.Providers[v.Provider]; !ok {
			return fmt.Errorf("embedding.vectorizers.%s.provider %q is not defined", name, v.Provider)
		}
	}
	if c.Embedding.Default != "" {
		if _, ok := c.Embedding.Vectorizers[c.Embedding.Default]; !ok {
			return fmt.Errorf("embedding.default %q is not a defined vectorizer", c.Embedding.Default)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
