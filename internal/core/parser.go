package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Labeled-block markers in a model response
const (
	markerSummary   = "SUMMARY:"
	markerIntent    = "INTENT:"
	markerUrgency   = "URGENCY:"
	markerSentiment = "SENTIMENT:"
	markerReplies   = "SUGGESTED_REPLIES:"
)

var replyNumbering = regexp.MustCompile(`^\d+\.\s*`)

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionReplies
)

// ResponseParser turns a labeled-block model response into a classification
type ResponseParser struct {
	rules  *RuleClassifier
	logger *zap.Logger
}

// NewResponseParser creates a parser that fills gaps from the rule classifier
func NewResponseParser(rules *RuleClassifier, logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{rules: rules, logger: logger}
}

// Parse reads a response line by line. Missing or out-of-enumeration values
// keep the field default and a missing summary or reply list is synthesized.
// Only a panic while parsing is reported as a parse failure.
func (p *ResponseParser) Parse(response string, msg *Message) (result *ClassificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = NewFailure(FailureParse, fmt.Errorf("panic while parsing response: %v", r))
		}
	}()

	var (
		summary   string
		intent    = DefaultIntent
		urgency   = DefaultUrgency
		sentiment = DefaultSentiment
		replies   []string
		current   = sectionNone
		labeled   bool
	)

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, markerSummary):
			labeled = true
			summary = strings.TrimSpace(strings.TrimPrefix(line, markerSummary))
			current = sectionSummary
		case strings.HasPrefix(line, markerIntent):
			labeled = true
			value := strings.TrimSpace(strings.TrimPrefix(line, markerIntent))
			if parsed, ok := ParseIntent(value); ok {
				intent = parsed
			} else {
				p.clamped(msg, "intent", value, string(DefaultIntent))
			}
			current = sectionNone
		case strings.HasPrefix(line, markerUrgency):
			labeled = true
			value := strings.TrimSpace(strings.TrimPrefix(line, markerUrgency))
			if parsed, ok := ParseUrgency(value); ok {
				urgency = parsed
			} else {
				p.clamped(msg, "urgency", value, string(DefaultUrgency))
			}
			current = sectionNone
		case strings.HasPrefix(line, markerSentiment):
			labeled = true
			value := strings.TrimSpace(strings.TrimPrefix(line, markerSentiment))
			if parsed, ok := ParseSentiment(value); ok {
				sentiment = parsed
			} else {
				p.clamped(msg, "sentiment", value, string(DefaultSentiment))
			}
			current = sectionNone
		case strings.HasPrefix(line, markerReplies):
			labeled = true
			current = sectionReplies
		case line == "":
			// blank lines never end a section
		case current == sectionSummary:
			if summary == "" {
				summary = line
			} else {
				summary += " " + line
			}
		case current == sectionReplies:
			reply := strings.Trim(replyNumbering.ReplaceAllString(line, ""), "[]")
			reply = strings.TrimSpace(reply)
			if reply != "" {
				replies = append(replies, reply)
			}
		}
	}

	if !labeled {
		p.logger.Debug("Model response carried no labeled blocks, using defaults", zap.String("message_id", msg.ID))
	}

	if summary == "" {
		summary = p.rules.Summarize(msg)
	}
	if len(replies) == 0 {
		replies = p.rules.TemplateReplies(intent)
	}

	return NewClassificationResult(msg.ID, summary, intent, urgency, sentiment, replies, SourceModel, "", time.Time{})
}

func (p *ResponseParser) clamped(msg *Message, field, value, fallback string) {
	p.logger.Warn("Model response value outside enumeration",
		zap.String("message_id", msg.ID),
		zap.String("field", field),
		zap.String("value", value),
		zap.String("default", fallback),
		zap.Error(NewFailure(FailureValidation, fmt.Errorf("%s %q is not enumerated", field, value))))
}
