package config

import (
	"fmt"

	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/core"
)

// GetVocabulary returns the rule classifier tables. Keys under vocabulary.*
// replace the matching default list; absent keys keep the defaults. Reply
// tables that leave an intent without a reply are rejected.
func (c *Config) GetVocabulary() (core.Vocabulary, error) {
	vocab := core.DefaultVocabulary()

	c.overrideList("vocabulary.spam_keywords", &vocab.SpamKeywords)
	c.overrideList("vocabulary.meeting_keywords", &vocab.MeetingKeywords)
	c.overrideList("vocabulary.action_keywords", &vocab.ActionKeywords)
	c.overrideList("vocabulary.follow_up_keywords", &vocab.FollowUpKeywords)
	c.overrideList("vocabulary.urgent_keywords", &vocab.UrgentKeywords)
	c.overrideList("vocabulary.low_priority_keywords", &vocab.LowPriorityKeywords)
	c.overrideList("vocabulary.positive_keywords", &vocab.PositiveKeywords)
	c.overrideList("vocabulary.negative_keywords", &vocab.NegativeKeywords)
	c.overrideList("vocabulary.default_replies", &vocab.DefaultReplies)

	// replies are keyed by intent key, e.g. vocabulary.replies.meeting_request
	for _, intent := range core.Intents {
		key := "vocabulary.replies." + intent.Key()
		if c.v.IsSet(key) {
			vocab.Replies[intent] = c.GetStringSlice(key)
		}
	}

	if err := vocab.Validate(); err != nil {
		return core.Vocabulary{}, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return vocab, nil
}

// GetLexicon returns the pattern analyzer tables, with analysis.* overrides
func (c *Config) GetLexicon() (analysis.Lexicon, error) {
	lex := analysis.DefaultLexicon()

	c.overrideList("analysis.formal_markers", &lex.FormalMarkers)
	c.overrideList("analysis.casual_markers", &lex.CasualMarkers)
	c.overrideList("analysis.positive_words", &lex.PositiveWords)
	c.overrideList("analysis.negative_words", &lex.NegativeWords)
	c.overrideList("analysis.urgent_words", &lex.UrgentWords)
	c.overrideList("analysis.action_verbs", &lex.ActionVerbs)

	for _, urgency := range core.Urgencies {
		key := "analysis.urgency_hours." + string(urgency)
		if c.v.IsSet(key) {
			lex.UrgencyHours[urgency] = c.GetFloat64(key)
		}
	}
	if c.v.IsSet("analysis.intent_multipliers") {
		for intent, raw := range c.v.GetStringMap("analysis.intent_multipliers") {
			multiplier, ok := toFloat(raw)
			if !ok {
				return analysis.Lexicon{}, fmt.Errorf("invalid multiplier for intent %q: %v", intent, raw)
			}
			lex.IntentMultipliers[intent] = multiplier
		}
	}
	if c.v.IsSet("analysis.categories") {
		var categories []analysis.Category
		if err := c.v.UnmarshalKey("analysis.categories", &categories); err != nil {
			return analysis.Lexicon{}, fmt.Errorf("failed to decode analysis.categories: %w", err)
		}
		lex.Categories = categories
	}

	return lex, nil
}

func (c *Config) overrideList(key string, target *[]string) {
	if c.v.IsSet(key) {
		*target = c.GetStringSlice(key)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
