package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/source"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/di"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/mailparse"
	"github.com/mikey/mail-triage/internal/ports"
)

var (
	flags      = &di.CLIFlags{}
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mail-triage",
		Short: "Classify, prioritise and summarise email",
		Long: `mail-triage assigns every message an intent, urgency and sentiment,
using a language model when one is configured and keyword rules otherwise,
and reports workload, risk and conversation threads for the batch.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default searches /etc/mail-triage, $HOME/.mail-triage, ./configs, .)")
	pf.StringVar(&flags.Provider, "provider", "", "model provider: openai, gemini, bedrock or none")
	pf.StringVar(&flags.Model, "model", "", "model name or Bedrock model ID")
	pf.StringVar(&flags.APIKey, "api-key", "", "API key for openai or gemini")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "per-message model timeout")
	pf.IntVar(&flags.Concurrency, "concurrency", 0, "maximum messages classified at once")
	pf.BoolVar(&flags.NoFallback, "no-fallback", false, "report model failures instead of falling back to rules")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "disable the model response cache")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output and debug logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "log in JSON format")
	pf.BoolVar(&jsonOutput, "json", false, "print the report as JSON")

	rootCmd.AddCommand(triageCmd())
	rootCmd.AddCommand(classifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func triageCmd() *cobra.Command {
	var fixturePath, mboxPath string

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage a batch of messages and print a report",
		Long: `Triage a batch loaded from a YAML fixture, an mbox archive or,
by default, the built-in sample backlog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixturePath != "" && mboxPath != "" {
				return fmt.Errorf("--fixture and --mbox are mutually exclusive")
			}
			return withContainer(cmd.Context(), func(ctx context.Context, logger *zap.Logger, triage config.TriageConfig, filters *factory.FilterFactory) error {
				var src ports.MessageSource
				switch {
				case fixturePath != "":
					src = source.NewFixtureSource(fixturePath, nil, triage.MaxBatchSize, logger)
				case mboxPath != "":
					src = source.NewMboxSource(mboxPath, triage.MaxBatchSize, logger)
				default:
					src = source.NewSampleSource(nil, triage.MaxBatchSize, logger)
				}

				_, err := filters.CreateCliFilter(os.Stdout, flags.Verbose, jsonOutput).Run(ctx, src)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML file of messages")
	cmd.Flags().StringVar(&mboxPath, "mbox", "", "mbox archive")
	cmd.Flags().IntVar(&flags.MaxBatchSize, "max-batch", 0, "maximum messages to load")

	return cmd
}

func classifyCmd() *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single RFC 5322 message",
		Long:  "Classify one message read from --file, or from stdin when no file is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if inputFile != "" {
				file, err := os.Open(inputFile)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer file.Close()
				r = file
			}

			msg, err := mailparse.Parse(r)
			if err != nil {
				return err
			}

			return withContainer(cmd.Context(), func(ctx context.Context, logger *zap.Logger, _ config.TriageConfig, filters *factory.FilterFactory) error {
				_, err := filters.CreateCliFilter(os.Stdout, flags.Verbose, jsonOutput).ProcessMessage(ctx, msg)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "message file (default stdin)")

	return cmd
}

type runFunc func(ctx context.Context, logger *zap.Logger, triage config.TriageConfig, filters *factory.FilterFactory) error

// withContainer builds the CLI container, runs fn with its dependencies and
// releases the model client and cache afterwards
func withContainer(parent context.Context, fn runFunc) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return container.Invoke(func(
		logger *zap.Logger,
		triage config.TriageConfig,
		filters *factory.FilterFactory,
		llmClient core.LLMClient,
		cacheRepo core.CacheRepository,
	) error {
		defer logger.Sync()
		defer release(logger, llmClient, cacheRepo)

		return fn(ctx, logger, triage, filters)
	})
}

func release(logger *zap.Logger, llmClient core.LLMClient, cacheRepo core.CacheRepository) {
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}
