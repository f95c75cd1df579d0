package core

import (
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestRules() *RuleClassifier {
	return NewRuleClassifier(DefaultVocabulary(), fixedClock)
}

func TestRuleClassifier_IntentPriority(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		body     string
		expected Intent
	}{
		{
			name:     "spam wins over meeting",
			subject:  "You are a WINNER",
			body:     "Join the meeting to claim your prize.",
			expected: IntentSpam,
		},
		{
			name:     "meeting wins over action",
			subject:  "Planning",
			body:     "Please join the Zoom session tomorrow.",
			expected: IntentMeetingRequest,
		},
		{
			name:     "action required",
			subject:  "Invoice",
			body:     "Please approve the attached invoice.",
			expected: IntentActionRequired,
		},
		{
			name:     "follow-up from reply marker",
			subject:  "Re: Proposal",
			body:     "Checking in on the proposal.",
			expected: IntentFollowUp,
		},
		{
			name:     "informational default",
			subject:  "Lunch plans",
			body:     "The cafeteria menu changed.",
			expected: IntentInformational,
		},
	}

	rules := newTestRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{ID: "m1", Subject: tt.subject, Body: tt.body, ReceivedAt: fixedNow.Add(-24 * time.Hour)}
			result := rules.Classify(msg)
			if result.Intent != tt.expected {
				t.Errorf("got %s, want %s", result.Intent, tt.expected)
			}
		})
	}
}

func TestRuleClassifier_UrgencyAgeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		expected Urgency
	}{
		{"just arrived", time.Minute, UrgencyHigh},
		{"under three hours", 2*time.Hour + 59*time.Minute, UrgencyHigh},
		{"exactly three hours", 3 * time.Hour, UrgencyMedium},
		{"three hours and a second", 3*time.Hour + time.Second, UrgencyMedium},
		{"47h59m", 47*time.Hour + 59*time.Minute, UrgencyMedium},
		{"exactly 48h", 48 * time.Hour, UrgencyMedium},
		{"48h01m", 48*time.Hour + time.Minute, UrgencyLow},
		{"future timestamp", -time.Hour, UrgencyHigh},
	}

	rules := newTestRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{
				ID:         "m1",
				Subject:    "Lunch plans",
				Body:       "The cafeteria menu changed.",
				ReceivedAt: fixedNow.Add(-tt.age),
			}
			if got := rules.Classify(msg).Urgency; got != tt.expected {
				t.Errorf("age %s: got %s, want %s", tt.age, got, tt.expected)
			}
		})
	}
}

func TestRuleClassifier_UrgencyKeywords(t *testing.T) {
	rules := newTestRules()
	old := fixedNow.Add(-72 * time.Hour)

	urgent := &Message{Subject: "Server down", Body: "This is critical.", ReceivedAt: old}
	if got := rules.Classify(urgent).Urgency; got != UrgencyHigh {
		t.Errorf("urgent keyword on old message: got %s, want High", got)
	}

	fyi := &Message{Subject: "FYI", Body: "Quarterly numbers attached.", ReceivedAt: fixedNow.Add(-10 * time.Hour)}
	if got := rules.Classify(fyi).Urgency; got != UrgencyLow {
		t.Errorf("low-priority keyword: got %s, want Low", got)
	}
}

func TestRuleClassifier_Sentiment(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Sentiment
	}{
		{"positive", "Great work, thank you.", SentimentPositive},
		{"negative", "The deployment failed with an error.", SentimentNegative},
		{"tie is neutral", "Thank you, but there is a problem.", SentimentNeutral},
		{"nothing is neutral", "The cafeteria menu changed.", SentimentNeutral},
	}

	rules := newTestRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Subject: "Note", Body: tt.body, ReceivedAt: fixedNow.Add(-24 * time.Hour)}
			if got := rules.Classify(msg).Sentiment; got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestRuleClassifier_Summary(t *testing.T) {
	rules := newTestRules()

	msg := &Message{
		SenderName: "Alice",
		Subject:    "Status",
		Body:       "First point. Second point! Third point?",
	}
	want := "Alice sent an email regarding: Status. First point Second point"
	if got := rules.Summarize(msg); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	empty := &Message{Body: "...!!"}
	if got := rules.Summarize(empty); got != "Unknown sent an email regarding: No Subject. " {
		t.Errorf("unexpected summary for empty message: %q", got)
	}

	long := &Message{SenderName: "Bob", Subject: "Long", Body: strings.Repeat("word ", 100) + ". " + strings.Repeat("more ", 100)}
	got := rules.Summarize(long)
	if n := len([]rune(got)); n != MaxSummaryLength {
		t.Errorf("expected truncated summary of %d chars, got %d", MaxSummaryLength, n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got[len(got)-5:])
	}
}

func TestRuleClassifier_TemplateReplies(t *testing.T) {
	rules := newTestRules()

	meeting := rules.TemplateReplies(IntentMeetingRequest)
	if len(meeting) != 3 || meeting[0] != ReplyMeetingConfirmed {
		t.Errorf("unexpected meeting replies: %v", meeting)
	}

	info := rules.TemplateReplies(IntentInformational)
	if len(info) != 2 || info[0] != ReplyAcknowledged || info[1] != ReplyThankYou {
		t.Errorf("unexpected default replies: %v", info)
	}

	// Returned slices must not alias the vocabulary
	info[0] = "changed"
	if rules.TemplateReplies(IntentInformational)[0] != ReplyAcknowledged {
		t.Error("template replies alias the vocabulary table")
	}
}

func TestRuleClassifier_Total(t *testing.T) {
	rules := newTestRules()
	inputs := []*Message{
		{},
		{Subject: "RE: RE: fwd:", Body: "?!.?!."},
		{Subject: "ｕｒｇｅｎｔ", Body: "ＰＬＥＡＳＥ"},
		{Subject: strings.Repeat("x", 1000), Body: strings.Repeat("déjà vu. ", 200), ReceivedAt: fixedNow},
		{Snippet: "only a snippet, thank you", ReceivedAt: fixedNow.Add(-100 * time.Hour)},
	}

	for i, msg := range inputs {
		result := rules.Classify(msg)
		if err := result.Validate(); err != nil {
			t.Errorf("input %d: invalid result: %v", i, err)
		}
		if len([]rune(result.Summary)) > MaxSummaryLength {
			t.Errorf("input %d: summary too long", i)
		}
	}
}

func TestRuleClassifier_FoldsFullWidthKeywords(t *testing.T) {
	rules := newTestRules()
	msg := &Message{Subject: "ＵＲＧＥＮＴ", Body: "ok", ReceivedAt: fixedNow.Add(-24 * time.Hour)}
	if got := rules.Classify(msg).Urgency; got != UrgencyHigh {
		t.Errorf("full-width keyword not matched: got %s", got)
	}
}

func TestRuleClassifier_SubstitutedVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	vocab.SpamKeywords = []string{"crypto giveaway"}
	vocab.MeetingKeywords = nil
	rules := NewRuleClassifier(vocab, fixedClock)

	msg := &Message{Subject: "Crypto Giveaway", Body: "meeting", ReceivedAt: fixedNow.Add(-24 * time.Hour)}
	if got := rules.Classify(msg).Intent; got != IntentSpam {
		t.Errorf("got %s, want %s", got, IntentSpam)
	}

	msg = &Message{Subject: "Sync", Body: "meeting", ReceivedAt: fixedNow.Add(-24 * time.Hour)}
	if got := rules.Classify(msg).Intent; got != IntentInformational {
		t.Errorf("got %s, want %s with meeting keywords removed", got, IntentInformational)
	}
}

func TestVocabulary_Validate(t *testing.T) {
	if err := DefaultVocabulary().Validate(); err != nil {
		t.Fatalf("default vocabulary invalid: %v", err)
	}

	noDefaults := DefaultVocabulary()
	noDefaults.DefaultReplies = nil
	if err := noDefaults.Validate(); err == nil {
		t.Error("expected an error without default replies")
	}

	emptyIntent := DefaultVocabulary()
	emptyIntent.Replies[IntentSpam] = []string{}
	if err := emptyIntent.Validate(); err == nil {
		t.Error("expected an error for an empty intent reply list")
	}
}
