package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/logging"
)

// CLIFlags contains the command line overrides of the triage CLI. Zero
// values leave the configured setting in place.
type CLIFlags struct {
	ConfigFile string

	// Model flags
	Provider string
	Model    string
	APIKey   string

	// Triage flags
	Timeout      time.Duration
	Concurrency  int
	MaxBatchSize int
	NoFallback   bool
	NoCache      bool

	// Output flags
	Verbose bool
	JSONLog bool
}

// BuildCLIContainer creates the dependency injection container for the CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideTriage(container); err != nil {
		return nil, err
	}
	return container, nil
}

// applyFlags writes the non-zero flags over the loaded configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()

	if flags.Provider != "" {
		v.Set("llm.provider", flags.Provider)
	}
	provider := v.GetString("llm.provider")

	if flags.Model != "" {
		switch provider {
		case "bedrock":
			v.Set("bedrock.model_id", flags.Model)
		case "gemini", "openai":
			v.Set(provider+".model_name", flags.Model)
		}
	}
	if flags.APIKey != "" && (provider == "gemini" || provider == "openai") {
		v.Set(provider+".api_key", flags.APIKey)
	}

	if flags.Timeout > 0 {
		v.Set("triage.timeout", flags.Timeout.String())
	}
	if flags.Concurrency > 0 {
		v.Set("triage.concurrency", flags.Concurrency)
	}
	if flags.MaxBatchSize > 0 {
		v.Set("triage.max_batch_size", flags.MaxBatchSize)
	}
	if flags.NoFallback {
		v.Set("triage.fallback_enabled", false)
	}
	if flags.NoCache {
		v.Set("cache.enabled", false)
	}
}
