package analysis

import "github.com/mikey/mail-triage/internal/core"

// Category is a named keyword set used by Categorize
type Category struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// DefaultCategory is returned when no category keyword matches
const DefaultCategory = "General"

// Sender relationships inferred by Relationship
const (
	RelationshipColleague  = "Colleague"
	RelationshipPartner    = "External Partner"
	RelationshipLeadership = "Leadership"
	RelationshipInternal   = "Internal"
	RelationshipExternal   = "External"
)

// Lexicon holds the word lists and scoring tables used by the analyzer
type Lexicon struct {
	FormalMarkers []string
	CasualMarkers []string

	PositiveWords []string
	NegativeWords []string
	UrgentWords   []string

	ActionVerbs     []string
	AttachmentWords []string

	// UrgencyHours is the base response time per urgency band
	UrgencyHours map[core.Urgency]float64
	// IntentMultipliers scales the base time, keyed by core.Intent.Key
	IntentMultipliers map[string]float64

	// Categories are checked in order; first match wins
	Categories []Category

	ColleagueWords  []string
	PartnerWords    []string
	LeadershipWords []string
	// InternalSuffixes mark a sender domain as internal
	InternalSuffixes []string
}

// DefaultLexicon returns the stock analyzer tables
func DefaultLexicon() Lexicon {
	return Lexicon{
		FormalMarkers: []string{"dear", "sincerely", "regards", "respectfully", "kindly", "pursuant", "herewith"},
		CasualMarkers: []string{"hey", "hi there", "thanks!", "cheers", "awesome", "cool", "lol", "btw"},

		PositiveWords: []string{"happy", "great", "excellent", "wonderful", "pleased", "excited", "thank", "appreciate"},
		NegativeWords: []string{"unfortunately", "concern", "issue", "problem", "disappointed", "worried", "sorry"},
		UrgentWords:   []string{"urgent", "asap", "immediately", "critical", "emergency", "deadline", "now"},

		ActionVerbs:     []string{"review", "approve", "sign", "submit", "send", "confirm", "update", "schedule", "attend", "complete"},
		AttachmentWords: []string{"attachment", "attached"},

		UrgencyHours: map[core.Urgency]float64{
			core.UrgencyHigh:   2,
			core.UrgencyMedium: 24,
			core.UrgencyLow:    72,
		},
		IntentMultipliers: map[string]float64{
			"action_required": 1.0,
			"meeting_request": 0.5,
			"question":        0.8,
			"information":     1.5,
			"urgent":          0.3,
		},

		Categories: []Category{
			{Name: "Business", Keywords: []string{"proposal", "contract", "agreement", "invoice", "payment", "business"}},
			{Name: "Calendar", Keywords: []string{"meeting", "appointment", "schedule", "calendar", "event", "reschedule"}},
			{Name: "Project", Keywords: []string{"project", "milestone", "deliverable", "sprint", "task", "deadline"}},
			{Name: "Financial", Keywords: []string{"budget", "expense", "cost", "financial", "revenue", "invoice", "payment"}},
			{Name: "HR", Keywords: []string{"interview", "candidate", "recruitment", "onboarding", "performance", "leave"}},
			{Name: "Technical", Keywords: []string{"bug", "issue", "error", "deployment", "code", "technical", "system"}},
			{Name: "Marketing", Keywords: []string{"campaign", "promotion", "announcement", "launch", "social media"}},
			{Name: "Training", Keywords: []string{"training", "workshop", "webinar", "course", "learning", "certification"}},
			{Name: "Alert", Keywords: []string{"alert", "warning", "critical", "security", "incident", "breach"}},
			{Name: "Documentation", Keywords: []string{"report", "documentation", "policy", "procedure", "guidelines"}},
		},

		ColleagueWords:   []string{"team", "colleague", "department"},
		PartnerWords:     []string{"client", "customer", "partner"},
		LeadershipWords:  []string{"manager", "director", "vp", "ceo"},
		InternalSuffixes: []string{".com", ".org", ".net"},
	}
}
