package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/insight"
	"github.com/mikey/mail-triage/internal/ports"
	"go.uber.org/zap"
)

// CliFilter triages messages from the command line and prints a report
type CliFilter struct {
	classifier   core.MessageClassifier
	orchestrator *core.BatchOrchestrator
	analyzer     *analysis.Analyzer
	logger       *zap.Logger
	out          io.Writer
	verbose      bool
	jsonOutput   bool
	now          func() time.Time
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(
	classifier core.MessageClassifier,
	orchestrator *core.BatchOrchestrator,
	analyzer *analysis.Analyzer,
	logger *zap.Logger,
	out io.Writer,
	verbose bool,
	jsonOutput bool,
) *CliFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CliFilter{
		classifier:   classifier,
		orchestrator: orchestrator,
		analyzer:     analyzer,
		logger:       logger,
		out:          out,
		verbose:      verbose,
		jsonOutput:   jsonOutput,
		now:          time.Now,
	}
}

// ProcessMessage classifies one message and prints its report
func (f *CliFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.ClassificationResult, error) {
	f.logger.Debug("Processing message", zap.String("message_id", msg.ID), zap.String("sender", msg.Sender))

	startTime := f.now()
	outcome := f.classifier.Classify(ctx, msg)
	if !outcome.OK() {
		err := fmt.Errorf("message %s could not be classified", msg.ID)
		if outcome.Failure != nil {
			err = outcome.Failure
		}
		f.logger.Error("Failed to classify message", zap.Error(err))
		return nil, err
	}

	report := insight.BuildReport("message", []core.Triaged{{Message: msg, Result: outcome.Result}}, f.analyzer, f.now())
	if err := f.write(report); err != nil {
		return nil, err
	}
	f.logger.Debug("Processed message", zap.Duration("duration", f.now().Sub(startTime)))
	return outcome.Result, nil
}

// Run loads a batch from src, classifies it and prints the report
func (f *CliFilter) Run(ctx context.Context, src ports.MessageSource) (*insight.Report, error) {
	messages, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages from %s: %w", src.Name(), err)
	}
	f.logger.Info("Loaded batch", zap.String("source", src.Name()), zap.Int("count", len(messages)))

	startTime := f.now()
	results := f.orchestrator.ClassifyBatch(ctx, messages)
	items := make([]core.Triaged, len(messages))
	for i, msg := range messages {
		items[i] = core.Triaged{Message: msg, Result: results[i]}
	}
	f.logger.Info("Classified batch",
		zap.Int("count", len(messages)),
		zap.Duration("duration", f.now().Sub(startTime)))

	report := insight.BuildReport(src.Name(), items, f.analyzer, f.now())
	if err := f.write(report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}

func (f *CliFilter) write(report insight.Report) error {
	if f.jsonOutput {
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}
	writeText(f.out, report, f.verbose)
	return nil
}

func writeText(w io.Writer, report insight.Report, verbose bool) {
	s := report.Summary
	fmt.Fprintf(w, "\n=== Triage Summary (%s) ===\n", report.Source)
	fmt.Fprintf(w, "Messages: %d\n", s.TotalMessages)
	fmt.Fprintf(w, "High priority: %d\n", s.HighPriorityCount)
	fmt.Fprintf(w, "Action required: %d\n", s.ActionRequiredCount)
	fmt.Fprintf(w, "Workload: %d (%s)\n", s.WorkloadScore, s.WorkloadLevel)
	fmt.Fprintf(w, "Risk: %d (%s)\n", s.RiskScore, s.RiskLevel)
	fmt.Fprintf(w, "Estimated processing time: %d min\n", s.ProcessingMinutes)
	fmt.Fprintf(w, "Recommendation: %s\n", s.Recommendation)

	fmt.Fprintf(w, "\n=== Messages ===\n")
	for _, mr := range report.Messages {
		fmt.Fprintf(w, "\n[%s] %s\n", mr.MessageID, mr.Subject)
		fmt.Fprintf(w, "From: %s\n", mr.Sender)
		if r := mr.Result; r != nil {
			fmt.Fprintf(w, "Intent: %s | Urgency: %s | Sentiment: %s | Source: %s\n", r.Intent, r.Urgency, r.Sentiment, r.Source)
			if r.ModelUsed != "" {
				fmt.Fprintf(w, "Model: %s\n", r.ModelUsed)
			}
			fmt.Fprintf(w, "Summary: %s\n", r.Summary)
		}
		if in := mr.Insight; in != nil {
			fmt.Fprintf(w, "Respond within: %.1fh (%s, priority %d)\n", in.Response.RecommendedHours, in.Response.Label, in.Response.PriorityScore)
			fmt.Fprintf(w, "Category: %s | Relationship: %s\n", in.Category, in.Relationship)
			if verbose {
				fmt.Fprintf(w, "Style: %s, %s, %s, %d words\n", in.Style.FormalityLevel, in.Style.Emotion, in.Style.Pace, in.Style.WordCount)
				writeList(w, "Dates", in.Entities.Dates)
				writeList(w, "Times", in.Entities.Times)
				writeList(w, "Amounts", in.Entities.Amounts)
				writeList(w, "Actions", in.Entities.ActionItems)
			}
		}
		if verbose && mr.Result != nil {
			for i, reply := range mr.Result.SuggestedReplies {
				fmt.Fprintf(w, "Reply %d: %s\n", i+1, reply)
			}
		}
	}

	if len(report.Threads) > 0 {
		fmt.Fprintf(w, "\n=== Threads ===\n")
		for _, th := range report.Threads {
			fmt.Fprintf(w, "%s: %d messages, %d participants, importance %s\n",
				th.Subject, th.Score.Length, th.Score.Participants, th.Score.Importance)
		}
	}
}

func writeList(w io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(values, ", "))
}
