package core

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestParser() *ResponseParser {
	return NewResponseParser(newTestRules(), zap.NewNop())
}

func testMessage() *Message {
	return &Message{
		ID:         "msg-1",
		Sender:     "alice@example.com",
		SenderName: "Alice",
		Subject:    "Budget Review",
		Body:       "Please review the budget. We need sign-off by Friday.",
		ReceivedAt: fixedNow.Add(-5 * time.Hour),
	}
}

func TestResponseParser_WellFormed(t *testing.T) {
	response := `SUMMARY: Budget review needs sign-off.
The team wants approval by Friday.

INTENT: Action Required

URGENCY: High

SENTIMENT: Negative

SUGGESTED_REPLIES:
1. [I'll approve today.]
2. Let me check the numbers.
3. [Can we talk tomorrow?]
`
	result, err := newTestParser().Parse(response, testMessage())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if want := "Budget review needs sign-off. The team wants approval by Friday."; result.Summary != want {
		t.Errorf("summary = %q, want %q", result.Summary, want)
	}
	if result.Intent != IntentActionRequired {
		t.Errorf("intent = %s", result.Intent)
	}
	if result.Urgency != UrgencyHigh {
		t.Errorf("urgency = %s", result.Urgency)
	}
	if result.Sentiment != SentimentNegative {
		t.Errorf("sentiment = %s", result.Sentiment)
	}
	wantReplies := []string{"I'll approve today.", "Let me check the numbers.", "Can we talk tomorrow?"}
	if len(result.SuggestedReplies) != len(wantReplies) {
		t.Fatalf("replies = %v", result.SuggestedReplies)
	}
	for i, want := range wantReplies {
		if result.SuggestedReplies[i] != want {
			t.Errorf("reply %d = %q, want %q", i, result.SuggestedReplies[i], want)
		}
	}
	if result.MessageID != "msg-1" {
		t.Errorf("message id = %q", result.MessageID)
	}
}

func TestResponseParser_ClampsUnknownValues(t *testing.T) {
	response := `SUMMARY: Something happened.
INTENT: Urgent Stuff
URGENCY: critical
SENTIMENT: positive
SUGGESTED_REPLIES:
1. Ok.`

	result, err := newTestParser().Parse(response, testMessage())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if result.Intent != DefaultIntent {
		t.Errorf("intent = %s, want default %s", result.Intent, DefaultIntent)
	}
	if result.Urgency != DefaultUrgency {
		t.Errorf("urgency = %s, want default %s", result.Urgency, DefaultUrgency)
	}
	if result.Sentiment != DefaultSentiment {
		t.Errorf("sentiment = %s, want default %s", result.Sentiment, DefaultSentiment)
	}
}

func TestResponseParser_SynthesizesMissingBlocks(t *testing.T) {
	msg := testMessage()
	result, err := newTestParser().Parse("INTENT: Meeting Request", msg)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rules := newTestRules()
	if want := rules.Summarize(msg); result.Summary != want {
		t.Errorf("summary = %q, want %q", result.Summary, want)
	}
	want := rules.TemplateReplies(IntentMeetingRequest)
	if len(result.SuggestedReplies) != len(want) || result.SuggestedReplies[0] != want[0] {
		t.Errorf("replies = %v, want %v", result.SuggestedReplies, want)
	}
}

func TestResponseParser_CapsReplies(t *testing.T) {
	response := `SUGGESTED_REPLIES:
1. One
2. Two
3. Three
4. Four`
	result, err := newTestParser().Parse(response, testMessage())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.SuggestedReplies) != MaxSuggestedReplies {
		t.Errorf("got %d replies, want %d", len(result.SuggestedReplies), MaxSuggestedReplies)
	}
}

func TestResponseParser_UnlabeledResponseUsesDefaults(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain text", "I think this email is about a budget approval."},
		{"lowercase markers", "summary: lowercase markers\nintent: Follow-up"},
		{"blank", "   \n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			result, err := newTestParser().Parse(tt.response, msg)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if result.Intent != DefaultIntent || result.Urgency != DefaultUrgency || result.Sentiment != DefaultSentiment {
				t.Errorf("got %s/%s/%s, want defaults", result.Intent, result.Urgency, result.Sentiment)
			}
			rules := newTestRules()
			if result.Summary != rules.Summarize(msg) {
				t.Errorf("summary = %q, want synthesized summary", result.Summary)
			}
			if len(result.SuggestedReplies) == 0 {
				t.Error("expected synthesized replies")
			}
		})
	}
}

func TestResponseParser_LongSummaryTruncated(t *testing.T) {
	long := "SUMMARY: "
	for i := 0; i < 60; i++ {
		long += "lorem ipsum "
	}
	result, err := newTestParser().Parse(long, testMessage())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := len([]rune(result.Summary)); n != MaxSummaryLength {
		t.Errorf("summary length = %d, want %d", n, MaxSummaryLength)
	}
}

func TestResponseParser_PanicIsParseFailure(t *testing.T) {
	// without a rule classifier the replies cannot be synthesized
	parser := NewResponseParser(nil, zap.NewNop())
	result, err := parser.Parse("INTENT: Meeting", testMessage())
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	if KindOf(err) != FailureParse {
		t.Errorf("kind = %s, want %s", KindOf(err), FailureParse)
	}
}
