package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/utils"
	"github.com/mikey/mail-triage/internal/whitelist"
)

// BuildContainer creates the dependency injection container for the SMTP
// triage daemon. An empty configPath searches the standard locations.
func BuildContainer(configPath string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(configPath)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideTriage(container); err != nil {
		return nil, err
	}
	return container, nil
}

// provideTriage registers everything between the configuration and the
// filters. The caller provides *config.Config and *zap.Logger.
func provideTriage(container *dig.Container) error {
	// Register factories
	for _, ctor := range []interface{}{
		factory.NewLLMFactory,
		factory.NewCacheFactory,
		factory.NewFilterFactory,
	} {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register typed configuration views
	if err := container.Provide(func(cfg *config.Config) (config.TriageConfig, error) {
		return cfg.GetTriage()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config) (core.Vocabulary, error) {
		return cfg.GetVocabulary()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config) (analysis.Lexicon, error) {
		return cfg.GetLexicon()
	}); err != nil {
		return err
	}

	// Register classifier options
	if err := container.Provide(func(cfg *config.Config, triage config.TriageConfig) (core.TriageOptions, error) {
		cacheCfg, err := cfg.GetCache()
		if err != nil {
			return core.TriageOptions{}, err
		}
		return core.TriageOptions{
			Timeout:         triage.Timeout,
			FallbackEnabled: triage.FallbackEnabled,
			CacheEnabled:    cacheCfg.Enabled,
			CacheTTL:        cacheCfg.TTL,
			MaxBodySize:     cfg.MaxBodySize(),
		}, nil
	}); err != nil {
		return err
	}

	// Register rule-only sender domains
	if err := container.Provide(func(triage config.TriageConfig, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(triage.RuleOnlyDomains, logger)
	}); err != nil {
		return err
	}

	// Register classification pipeline
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}
	if err := container.Provide(func(vocab core.Vocabulary) *core.RuleClassifier {
		return core.NewRuleClassifier(vocab, nil)
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewResponseParser); err != nil {
		return err
	}
	if err := container.Provide(core.NewTriageService); err != nil {
		return err
	}
	if err := container.Provide(func(
		service *core.TriageService,
		rules *core.RuleClassifier,
		logger *zap.Logger,
		triage config.TriageConfig,
	) *core.BatchOrchestrator {
		return core.NewBatchOrchestrator(service, rules, logger, triage.Concurrency)
	}); err != nil {
		return err
	}

	// Register pattern analyzer
	return container.Provide(func(lex analysis.Lexicon) *analysis.Analyzer {
		return analysis.NewAnalyzer(lex, nil)
	})
}
