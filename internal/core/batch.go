package core

import (
	"context"
	"fmt"

	"github.com/mikey/mail-triage/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOrchestrator classifies a batch of messages concurrently. Output order
// matches input order and a failing unit only degrades its own slot to the
// rule result.
type BatchOrchestrator struct {
	classifier  MessageClassifier
	rules       *RuleClassifier
	logger      *zap.Logger
	concurrency int
}

// NewBatchOrchestrator creates an orchestrator. concurrency <= 0 schedules
// every unit at once.
func NewBatchOrchestrator(classifier MessageClassifier, rules *RuleClassifier, logger *zap.Logger, concurrency int) *BatchOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOrchestrator{
		classifier:  classifier,
		rules:       rules,
		logger:      logger,
		concurrency: concurrency,
	}
}

// ClassifyBatch returns one result per message, in input order. It never fails.
func (b *BatchOrchestrator) ClassifyBatch(ctx context.Context, messages []*Message) []*ClassificationResult {
	results := make([]*ClassificationResult, len(messages))
	if len(messages) == 0 {
		return results
	}
	metrics.RecordBatch(len(messages))

	var g errgroup.Group
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	for i, msg := range messages {
		i, msg := i, msg
		g.Go(func() error {
			results[i] = b.classifyUnit(ctx, i, msg)
			return nil
		})
	}
	// units never return an error; failures become rule fallbacks
	g.Wait()

	return results
}

// classifyUnit runs one message. Each unit writes only its own slot.
func (b *BatchOrchestrator) classifyUnit(ctx context.Context, index int, msg *Message) (result *ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = b.fallback(index, msg, NewFailure(FailureTransport, fmt.Errorf("unit panicked: %v", r)))
		}
	}()

	outcome := b.classifier.Classify(ctx, msg)
	if !outcome.OK() {
		failure := outcome.Failure
		if failure == nil {
			failure = NewFailure(FailureTransport, fmt.Errorf("classifier returned no result"))
		}
		return b.fallback(index, msg, failure)
	}
	return outcome.Result
}

func (b *BatchOrchestrator) fallback(index int, msg *Message, failure *Failure) *ClassificationResult {
	b.logger.Warn("Batch unit failed, using rule classification",
		zap.Int("index", index),
		zap.String("message_id", msg.ID),
		zap.String("kind", string(failure.Kind)),
		zap.Error(failure.Err))
	metrics.RecordClassification(string(SourceFallback))

	result := b.rules.Classify(msg)
	result.Source = SourceFallback
	return result
}
