package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/mikey/mail-triage/internal/utils"
)

const (
	// RecentWindow marks a message as fresh enough to be urgent
	RecentWindow = 3 * time.Hour
	// StaleWindow marks a message as old enough to be low priority
	StaleWindow = 48 * time.Hour
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// RuleClassifier classifies messages from keyword tables alone. It has no
// failure mode and is the floor every other path falls back to.
type RuleClassifier struct {
	vocab Vocabulary
	now   func() time.Time
}

// NewRuleClassifier creates a rule classifier. A nil clock means time.Now.
func NewRuleClassifier(vocab Vocabulary, now func() time.Time) *RuleClassifier {
	if now == nil {
		now = time.Now
	}
	return &RuleClassifier{vocab: vocab, now: now}
}

// Classify returns the deterministic classification of msg
func (c *RuleClassifier) Classify(msg *Message) *ClassificationResult {
	now := c.now()
	text := utils.Fold(msg.Subject + " " + msg.Text())
	intent := c.ClassifyIntent(text)

	return &ClassificationResult{
		MessageID:        msg.ID,
		Summary:          c.Summarize(msg),
		Intent:           intent,
		Urgency:          c.ClassifyUrgency(text, now.Sub(msg.ReceivedAt)),
		Sentiment:        c.ClassifySentiment(text),
		SuggestedReplies: c.TemplateReplies(intent),
		Source:           SourceRules,
		ModelUsed:        "rules",
		AnalyzedAt:       now,
	}
}

// ClassifyIntent checks the keyword sets in priority order; first match wins
func (c *RuleClassifier) ClassifyIntent(folded string) Intent {
	switch {
	case utils.ContainsAny(folded, c.vocab.SpamKeywords):
		return IntentSpam
	case utils.ContainsAny(folded, c.vocab.MeetingKeywords):
		return IntentMeetingRequest
	case utils.ContainsAny(folded, c.vocab.ActionKeywords):
		return IntentActionRequired
	case utils.ContainsAny(folded, c.vocab.FollowUpKeywords):
		return IntentFollowUp
	default:
		return IntentInformational
	}
}

// ClassifyUrgency combines keywords with message age. A message younger than
// RecentWindow is High regardless of content.
func (c *RuleClassifier) ClassifyUrgency(folded string, age time.Duration) Urgency {
	if utils.ContainsAny(folded, c.vocab.UrgentKeywords) || age < RecentWindow {
		return UrgencyHigh
	}
	if utils.ContainsAny(folded, c.vocab.LowPriorityKeywords) || age > StaleWindow {
		return UrgencyLow
	}
	return UrgencyMedium
}

// ClassifySentiment compares positive and negative keyword hits; ties are Neutral
func (c *RuleClassifier) ClassifySentiment(folded string) Sentiment {
	positive := utils.CountMatches(folded, c.vocab.PositiveKeywords)
	negative := utils.CountMatches(folded, c.vocab.NegativeKeywords)

	switch {
	case positive > negative && positive > 0:
		return SentimentPositive
	case negative > positive && negative > 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Summarize builds a short summary from the sender, subject and the first two
// sentences of the body
func (c *RuleClassifier) Summarize(msg *Message) string {
	senderName := msg.SenderName
	if senderName == "" {
		senderName = "Unknown"
	}
	subject := msg.Subject
	if subject == "" {
		subject = "No Subject"
	}

	var sentences []string
	for _, fragment := range sentenceSplit.Split(msg.Text(), -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		sentences = append(sentences, fragment)
		if len(sentences) == 2 {
			break
		}
	}

	summary := senderName + " sent an email regarding: " + subject + ". " + strings.Join(sentences, " ")
	return TruncateSummary(summary)
}

// TemplateReplies returns the canned replies for an intent
func (c *RuleClassifier) TemplateReplies(intent Intent) []string {
	replies, ok := c.vocab.Replies[intent]
	if !ok || len(replies) == 0 {
		replies = c.vocab.DefaultReplies
	}
	if len(replies) > MaxSuggestedReplies {
		replies = replies[:MaxSuggestedReplies]
	}
	return append([]string(nil), replies...)
}
