package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI and compatible endpoints
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// TriageConfig holds the classifier and batch tunables
type TriageConfig struct {
	Timeout         time.Duration
	FallbackEnabled bool
	MaxBatchSize    int
	Concurrency     int
	RuleOnlyDomains []string
}

// BreakerConfig holds the circuit breaker settings for model calls
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// CacheConfig holds the model-response cache settings
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// HeaderNames are the headers written by the SMTP triage filter
type HeaderNames struct {
	Intent    string
	Urgency   string
	Sentiment string
	Source    string
	Summary   string
}

// ServerConfig represents the SMTP triage filter configuration
type ServerConfig struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ReinjectEnabled bool
	ReinjectAddress string
	ReinjectPort    int
	SubjectPrefix   string
	Headers         HeaderNames
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// MaxBodySize returns the body size limit of the active provider
func (c *Config) MaxBodySize() int {
	switch c.GetLLM().Provider {
	case "bedrock":
		return c.GetBedrock().MaxBodySize
	case "gemini":
		return c.GetGemini().MaxBodySize
	default:
		return c.GetOpenAI().MaxBodySize
	}
}

// GetTriage returns the classifier and batch configuration
func (c *Config) GetTriage() (TriageConfig, error) {
	timeout, err := c.GetDuration("triage.timeout")
	if err != nil {
		return TriageConfig{}, err
	}
	if timeout <= 0 {
		return TriageConfig{}, fmt.Errorf("triage.timeout must be positive, got %s", timeout)
	}
	return TriageConfig{
		Timeout:         timeout,
		FallbackEnabled: c.GetBool("triage.fallback_enabled"),
		MaxBatchSize:    c.GetInt("triage.max_batch_size"),
		Concurrency:     c.GetInt("triage.concurrency"),
		RuleOnlyDomains: c.GetStringSlice("triage.rule_only_domains"),
	}, nil
}

// GetBreaker returns the circuit breaker configuration
func (c *Config) GetBreaker() (BreakerConfig, error) {
	interval, err := c.GetDuration("breaker.interval")
	if err != nil {
		return BreakerConfig{}, err
	}
	timeout, err := c.GetDuration("breaker.timeout")
	if err != nil {
		return BreakerConfig{}, err
	}
	return BreakerConfig{
		Enabled:          c.GetBool("breaker.enabled"),
		MaxRequests:      uint32(c.GetInt("breaker.max_requests")),
		Interval:         interval,
		Timeout:          timeout,
		FailureThreshold: uint32(c.GetInt("breaker.failure_threshold")),
	}, nil
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetServer returns the SMTP triage filter configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Domain:          c.GetString("server.domain"),
		MaxMessageBytes: c.v.GetInt64("server.max_message_bytes"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ReinjectEnabled: c.GetBool("server.reinject.enabled"),
		ReinjectAddress: c.GetString("server.reinject.address"),
		ReinjectPort:    c.GetInt("server.reinject.port"),
		SubjectPrefix:   c.GetString("server.subject_prefix"),
		Headers: HeaderNames{
			Intent:    c.GetString("server.headers.intent"),
			Urgency:   c.GetString("server.headers.urgency"),
			Sentiment: c.GetString("server.headers.sentiment"),
			Source:    c.GetString("server.headers.source"),
			Summary:   c.GetString("server.headers.summary"),
		},
	}, nil
}
