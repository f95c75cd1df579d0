package core

import (
	"fmt"
	"strings"
	"time"
)

// Message represents an inbound message awaiting triage
type Message struct {
	ID         string    `json:"id" yaml:"id"`
	Sender     string    `json:"sender" yaml:"sender"`
	SenderName string    `json:"sender_name" yaml:"sender_name"`
	Subject    string    `json:"subject" yaml:"subject"`
	Body       string    `json:"body" yaml:"body"`
	Snippet    string    `json:"snippet,omitempty" yaml:"snippet"`
	ReceivedAt time.Time `json:"received_at" yaml:"received_at"`
	Labels     []string  `json:"labels,omitempty" yaml:"labels"`
}

// Text returns the body, or the snippet when the body is empty
func (m *Message) Text() string {
	if m.Body != "" {
		return m.Body
	}
	return m.Snippet
}

// SenderDomain returns the lowercased domain part of the sender address
func (m *Message) SenderDomain() string {
	parts := strings.Split(m.Sender, "@")
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(parts[1]))
}

// Intent is the categorical purpose of a message
type Intent string

const (
	IntentInformational  Intent = "Informational"
	IntentActionRequired Intent = "Action Required"
	IntentMeetingRequest Intent = "Meeting Request"
	IntentFollowUp       Intent = "Follow-up"
	IntentSpam           Intent = "Spam/Low Priority"
)

// Intents lists every intent in declaration order
var Intents = []Intent{
	IntentInformational,
	IntentActionRequired,
	IntentMeetingRequest,
	IntentFollowUp,
	IntentSpam,
}

// ParseIntent accepts only an exact match of one of the enumerated intents
func ParseIntent(s string) (Intent, bool) {
	for _, intent := range Intents {
		if string(intent) == s {
			return intent, true
		}
	}
	return "", false
}

// Key returns the snake_case key used by the response-time multiplier table
func (i Intent) Key() string {
	switch i {
	case IntentActionRequired:
		return "action_required"
	case IntentMeetingRequest:
		return "meeting_request"
	case IntentFollowUp:
		return "follow_up"
	case IntentSpam:
		return "spam"
	default:
		return "information"
	}
}

// Urgency is a 3-level priority band
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Urgencies lists every urgency level from highest to lowest
var Urgencies = []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}

// ParseUrgency accepts only an exact match of one of the enumerated levels
func ParseUrgency(s string) (Urgency, bool) {
	for _, u := range Urgencies {
		if string(u) == s {
			return u, true
		}
	}
	return "", false
}

// Sentiment is a 3-level tone tag
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Sentiments lists every sentiment tag
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ParseSentiment accepts only an exact match of one of the enumerated tags
func ParseSentiment(s string) (Sentiment, bool) {
	for _, sentiment := range Sentiments {
		if string(sentiment) == s {
			return sentiment, true
		}
	}
	return "", false
}

// Source records which path produced a classification
type Source string

const (
	SourceModel    Source = "model"
	SourceCache    Source = "cache"
	SourceRules    Source = "rules"
	SourceFallback Source = "fallback"
)

// Field defaults applied when a model response leaves a value out or names
// something outside the enumeration.
const (
	DefaultIntent    = IntentInformational
	DefaultUrgency   = UrgencyMedium
	DefaultSentiment = SentimentNeutral
)

const (
	// MaxSummaryLength is the longest summary, in characters, a result may carry
	MaxSummaryLength = 250
	// MaxSuggestedReplies caps the reply drafts attached to a result
	MaxSuggestedReplies = 3
)

// ClassificationResult represents the triage decision for one message
type ClassificationResult struct {
	MessageID        string    `json:"message_id"`
	Summary          string    `json:"summary"`
	Intent           Intent    `json:"intent"`
	Urgency          Urgency   `json:"urgency"`
	Sentiment        Sentiment `json:"sentiment"`
	SuggestedReplies []string  `json:"suggested_replies"`
	Source           Source    `json:"source"`
	ModelUsed        string    `json:"model_used"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}

// NewClassificationResult builds a result and checks it at the boundary
func NewClassificationResult(
	messageID string,
	summary string,
	intent Intent,
	urgency Urgency,
	sentiment Sentiment,
	replies []string,
	source Source,
	modelUsed string,
	analyzedAt time.Time,
) (*ClassificationResult, error) {
	if len(replies) > MaxSuggestedReplies {
		replies = replies[:MaxSuggestedReplies]
	}
	result := &ClassificationResult{
		MessageID:        messageID,
		Summary:          TruncateSummary(summary),
		Intent:           intent,
		Urgency:          urgency,
		Sentiment:        sentiment,
		SuggestedReplies: append([]string(nil), replies...),
		Source:           source,
		ModelUsed:        modelUsed,
		AnalyzedAt:       analyzedAt,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// Validate reports a validation failure for any field outside its enumeration
func (r *ClassificationResult) Validate() error {
	if _, ok := ParseIntent(string(r.Intent)); !ok {
		return NewFailure(FailureValidation, fmt.Errorf("intent %q is not enumerated", r.Intent))
	}
	if _, ok := ParseUrgency(string(r.Urgency)); !ok {
		return NewFailure(FailureValidation, fmt.Errorf("urgency %q is not enumerated", r.Urgency))
	}
	if _, ok := ParseSentiment(string(r.Sentiment)); !ok {
		return NewFailure(FailureValidation, fmt.Errorf("sentiment %q is not enumerated", r.Sentiment))
	}
	if len(r.SuggestedReplies) == 0 || len(r.SuggestedReplies) > MaxSuggestedReplies {
		return NewFailure(FailureValidation, fmt.Errorf("expected 1-%d suggested replies, got %d", MaxSuggestedReplies, len(r.SuggestedReplies)))
	}
	return nil
}

// TruncateSummary enforces MaxSummaryLength with a trailing ellipsis
func TruncateSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= MaxSummaryLength {
		return summary
	}
	return string(runes[:MaxSummaryLength-3]) + "..."
}

// Triaged pairs a message with its classification
type Triaged struct {
	Message *Message
	Result  *ClassificationResult
}
