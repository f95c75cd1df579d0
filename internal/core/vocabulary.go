package core

import (
	"fmt"
	"strings"
)

// Vocabulary holds the keyword tables and reply templates used by the rule
// classifier. Callers own the value; DefaultVocabulary returns a fresh copy.
type Vocabulary struct {
	SpamKeywords     []string
	MeetingKeywords  []string
	ActionKeywords   []string
	FollowUpKeywords []string

	UrgentKeywords      []string
	LowPriorityKeywords []string

	PositiveKeywords []string
	NegativeKeywords []string

	// Replies maps an intent to up to three canned replies
	Replies map[Intent][]string
	// DefaultReplies is used for intents missing from Replies
	DefaultReplies []string
}

// Reply templates shared between intents
const (
	ReplyThankYou         = "Thank you for the update. I appreciate you keeping me informed."
	ReplyReview           = "I'll review this and get back to you shortly."
	ReplyMeetingConfirmed = "Meeting confirmed. Looking forward to it."
	ReplyNeedMoreInfo     = "Could you please provide more details on this?"
	ReplyAcknowledged     = "Acknowledged. I will handle this accordingly."
	ReplyNotRelevant      = "Thank you, but this doesn't require action from me at this time."
)

// DefaultVocabulary returns the stock keyword tables
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		SpamKeywords: []string{
			"winner", "congratulations!!!", "claim your prize",
			"click here", "limited time", "act now", "$$$",
		},
		MeetingKeywords: []string{
			"meeting", "schedule", "calendar", "availability",
			"call", "conference", "zoom", "teams",
		},
		ActionKeywords: []string{
			"urgent", "asap", "action required", "please",
			"need", "must", "required", "approve", "confirm",
		},
		FollowUpKeywords: []string{
			"follow up", "following up", "re:", "regarding",
			"update", "status", "checking in",
		},
		UrgentKeywords: []string{
			"urgent", "asap", "immediately", "critical",
			"emergency", "today", "deadline", "must",
		},
		LowPriorityKeywords: []string{
			"fyi", "for your information", "newsletter",
			"update", "digest", "no action required",
		},
		PositiveKeywords: []string{
			"thank", "excellent", "great", "wonderful", "appreciate",
			"impressed", "congratulations", "happy", "pleased", "perfect",
		},
		NegativeKeywords: []string{
			"issue", "problem", "error", "failed", "wrong",
			"disappointed", "concerned", "urgent", "critical", "complaint",
		},
		Replies: map[Intent][]string{
			IntentActionRequired: {ReplyReview, ReplyAcknowledged, ReplyNeedMoreInfo},
			IntentMeetingRequest: {
				ReplyMeetingConfirmed,
				"Let me check my calendar and get back to you.",
				"Could we schedule this for next week instead?",
			},
			IntentFollowUp: {
				ReplyReview,
				ReplyThankYou,
				"Thanks for the follow-up. I'll prioritize this.",
			},
			IntentSpam: {
				ReplyNotRelevant,
				"Please remove me from this mailing list.",
				"Not interested, thank you.",
			},
		},
		DefaultReplies: []string{ReplyAcknowledged, ReplyThankYou},
	}
}

// Validate checks that every intent resolves to at least one non-blank reply
func (v Vocabulary) Validate() error {
	if len(v.DefaultReplies) == 0 {
		return fmt.Errorf("default replies must not be empty")
	}
	if err := checkReplies("default", v.DefaultReplies); err != nil {
		return err
	}
	for intent, replies := range v.Replies {
		if len(replies) == 0 {
			return fmt.Errorf("replies for %s must not be empty", intent)
		}
		if err := checkReplies(string(intent), replies); err != nil {
			return err
		}
	}
	return nil
}

func checkReplies(name string, replies []string) error {
	for i, reply := range replies {
		if strings.TrimSpace(reply) == "" {
			return fmt.Errorf("%s reply %d is blank", name, i+1)
		}
	}
	return nil
}
