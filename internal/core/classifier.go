package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/mail-triage/internal/metrics"
	"github.com/mikey/mail-triage/internal/utils"
	"github.com/mikey/mail-triage/internal/whitelist"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the model answers with no text
var ErrEmptyResponse = errors.New("empty response from model")

// Outcome carries either a classification or the reason one could not be made.
// With fallback enabled a failed attempt still carries the rule result, and
// Failure records why the model path was abandoned.
type Outcome struct {
	Result  *ClassificationResult
	Failure *Failure
}

// OK reports whether the outcome carries a usable result
func (o Outcome) OK() bool {
	return o.Result != nil
}

// TriageOptions holds the tunables of the AI-assisted classifier
type TriageOptions struct {
	Timeout         time.Duration
	FallbackEnabled bool
	CacheEnabled    bool
	CacheTTL        time.Duration
	MaxBodySize     int
}

// TriageService is the AI-assisted classifier. The model is the only
// blocking dependency; every failure on that path is tagged and, when
// fallback is enabled, replaced by the rule classifier's answer.
type TriageService struct {
	llmClient     LLMClient
	cache         CacheRepository
	rules         *RuleClassifier
	parser        *ResponseParser
	textProcessor *utils.TextProcessor
	ruleOnly      *whitelist.Checker
	logger        *zap.Logger
	opts          TriageOptions
}

// NewTriageService creates a new triage service. llmClient may be nil, in
// which case every message is classified by rules.
func NewTriageService(
	llmClient LLMClient,
	cache CacheRepository,
	rules *RuleClassifier,
	parser *ResponseParser,
	textProcessor *utils.TextProcessor,
	ruleOnly *whitelist.Checker,
	logger *zap.Logger,
	opts TriageOptions,
) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger)
	}
	if parser == nil {
		parser = NewResponseParser(rules, logger)
	}
	return &TriageService{
		llmClient:     llmClient,
		cache:         cache,
		rules:         rules,
		parser:        parser,
		textProcessor: textProcessor,
		ruleOnly:      ruleOnly,
		logger:        logger,
		opts:          opts,
	}
}

// Classify triages one message
func (s *TriageService) Classify(ctx context.Context, msg *Message) Outcome {
	if s.llmClient == nil {
		return s.rulesOutcome(msg, SourceRules)
	}
	if s.ruleOnly != nil && s.ruleOnly.IsWhitelisted(msg.Sender) {
		s.logger.Debug("Skipping model for rule-only sender",
			zap.String("message_id", msg.ID),
			zap.String("sender", msg.Sender))
		return s.rulesOutcome(msg, SourceRules)
	}

	prompt := BuildPrompt(msg, s.textProcessor.ProcessText(msg.Text(), s.opts.MaxBodySize))
	key := cacheKey(s.llmClient.ModelName(), prompt)

	if s.cacheEnabled() {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			var result *ClassificationResult
			perr := error(NewFailure(FailureParse, ErrEmptyResponse))
			if strings.TrimSpace(entry.Response) != "" {
				result, perr = s.parser.Parse(entry.Response, msg)
			}
			if perr == nil {
				s.logger.Debug("Cache hit for prompt", zap.String("message_id", msg.ID))
				return s.success(result, SourceCache, entry.ModelUsed)
			}
			s.logger.Warn("Discarding unparsable cache entry", zap.String("message_id", msg.ID), zap.Error(perr))
			if err := s.cache.Delete(ctx, key); err != nil {
				s.logger.Error("Failed to delete cache entry", zap.Error(err))
			}
		}
	}

	response, err := s.complete(ctx, prompt)
	if err != nil {
		return s.fail(msg, AsFailure(err))
	}

	result, err := s.parser.Parse(response, msg)
	if err != nil {
		return s.fail(msg, AsFailure(err))
	}

	if s.cacheEnabled() {
		now := s.rules.now()
		entry := &CacheEntry{
			Key:       key,
			Response:  response,
			ModelUsed: s.llmClient.ModelName(),
			CreatedAt: now,
			ExpiresAt: now.Add(s.opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return s.success(result, SourceModel, s.llmClient.ModelName())
}

type completion struct {
	text string
	err  error
}

// complete calls the model under the configured timeout. The wait is bounded
// even if the client ignores its context.
func (s *TriageService) complete(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	model := s.llmClient.ModelName()
	start := time.Now()
	done := make(chan completion, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- completion{err: NewFailure(FailureTransport, fmt.Errorf("model client panicked: %v", r))}
			}
		}()
		text, err := s.llmClient.Complete(callCtx, prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-callCtx.Done():
		metrics.RecordModelCall(model, "timeout", time.Since(start))
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", NewFailure(FailureTimeout, fmt.Errorf("model call exceeded %s: %w", s.opts.Timeout, callCtx.Err()))
		}
		return "", NewFailure(FailureTransport, callCtx.Err())
	case res := <-done:
		if res.err != nil {
			metrics.RecordModelCall(model, "error", time.Since(start))
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return "", NewFailure(FailureTimeout, res.err)
			}
			return "", AsFailure(res.err)
		}
		metrics.RecordModelCall(model, "ok", time.Since(start))
		if strings.TrimSpace(res.text) == "" {
			return "", NewFailure(FailureParse, ErrEmptyResponse)
		}
		return res.text, nil
	}
}

func (s *TriageService) success(result *ClassificationResult, source Source, model string) Outcome {
	result.Source = source
	result.ModelUsed = model
	result.AnalyzedAt = s.rules.now()
	metrics.RecordClassification(string(source))
	return Outcome{Result: result}
}

func (s *TriageService) fail(msg *Message, failure *Failure) Outcome {
	metrics.RecordFailure(string(failure.Kind))

	if !s.opts.FallbackEnabled {
		s.logger.Warn("Model classification failed",
			zap.String("message_id", msg.ID),
			zap.String("kind", string(failure.Kind)),
			zap.Error(failure.Err))
		return Outcome{Failure: failure}
	}

	s.logger.Warn("Falling back to rule classification",
		zap.String("message_id", msg.ID),
		zap.String("kind", string(failure.Kind)),
		zap.Error(failure.Err))
	outcome := s.rulesOutcome(msg, SourceFallback)
	outcome.Failure = failure
	return outcome
}

func (s *TriageService) rulesOutcome(msg *Message, source Source) Outcome {
	result := s.rules.Classify(msg)
	result.Source = source
	metrics.RecordClassification(string(source))
	return Outcome{Result: result}
}

func (s *TriageService) cacheEnabled() bool {
	return s.opts.CacheEnabled && s.cache != nil
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
