package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MAIL_TRIAGE_LLM_PROVIDER
const EnvPrefix = "MAIL_TRIAGE"

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile loads configuration from path, or from the standard search
// paths when path is empty
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mail-triage/")
		v.AddConfigPath("$HOME/.mail-triage")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	// Triage defaults
	v.SetDefault("triage.timeout", "30s")
	v.SetDefault("triage.fallback_enabled", true)
	v.SetDefault("triage.max_batch_size", 50)
	v.SetDefault("triage.concurrency", 0)
	v.SetDefault("triage.rule_only_domains", []string{})

	// Circuit breaker defaults
	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.failure_threshold", 5)

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.domain", "localhost")
	v.SetDefault("server.max_message_bytes", 10*1024*1024)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.reinject.enabled", true)
	v.SetDefault("server.reinject.address", "localhost")
	v.SetDefault("server.reinject.port", 10026)
	v.SetDefault("server.subject_prefix", "")
	v.SetDefault("server.headers.intent", "X-Triage-Intent")
	v.SetDefault("server.headers.urgency", "X-Triage-Urgency")
	v.SetDefault("server.headers.sentiment", "X-Triage-Sentiment")
	v.SetDefault("server.headers.source", "X-Triage-Source")
	v.SetDefault("server.headers.summary", "X-Triage-Summary")

	// Metrics defaults
	v.SetDefault("metrics.listen_address", "0.0.0.0:9102")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.3)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.top_p", 1.0)
	v.SetDefault("openai.max_body_size", 4096)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/triage_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/mail_triage")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration parses a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
