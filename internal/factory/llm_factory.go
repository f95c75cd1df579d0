package factory

import (
	"fmt"

	"github.com/mikey/mail-triage/internal/adapters/bedrock"
	"github.com/mikey/mail-triage/internal/adapters/breaker"
	"github.com/mikey/mail-triage/internal/adapters/gemini"
	"github.com/mikey/mail-triage/internal/adapters/openai"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// ProviderNone disables the model; every message is triaged by rules
const ProviderNone = "none"

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates the configured provider's client, wrapped in a
// circuit breaker when enabled. The "none" provider, or a provider without
// an API key, yields a nil client and triage runs on rules alone.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	provider := f.cfg.GetLLM().Provider

	var client core.LLMClient
	var err error
	switch provider {
	case ProviderNone, "":
		f.logger.Info("No model provider configured, triaging by rules only")
		return nil, nil
	case "bedrock":
		client, err = bedrock.NewFactory(f.cfg, f.logger).CreateLLMClient()
	case "gemini":
		if f.cfg.GetGemini().APIKey == "" {
			return f.missingCredentials(provider, "gemini.api_key")
		}
		client, err = gemini.NewFactory(f.cfg, f.logger).CreateLLMClient()
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			return f.missingCredentials(provider, "openai.api_key")
		}
		client, err = openai.NewFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	breakerCfg, err := f.cfg.GetBreaker()
	if err != nil {
		return nil, fmt.Errorf("invalid breaker configuration: %w", err)
	}
	if !breakerCfg.Enabled {
		return client, nil
	}

	f.logger.Info("Wrapping model client in circuit breaker",
		zap.String("provider", provider),
		zap.Uint32("failure_threshold", breakerCfg.FailureThreshold),
		zap.Duration("open_timeout", breakerCfg.Timeout))
	return breaker.New(client, breaker.Settings{
		MaxRequests:      breakerCfg.MaxRequests,
		Interval:         breakerCfg.Interval,
		Timeout:          breakerCfg.Timeout,
		FailureThreshold: breakerCfg.FailureThreshold,
	}, f.logger), nil
}

// missingCredentials degrades to rules-only triage
func (f *LLMFactory) missingCredentials(provider, key string) (core.LLMClient, error) {
	f.logger.Warn("No API key configured for model provider, triaging by rules only",
		zap.String("provider", provider),
		zap.String("key", key))
	return nil, nil
}
