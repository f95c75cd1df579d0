package analysis

import "time"

// FormalityLevel is the band derived from a formality score
type FormalityLevel string

const (
	FormalityFormal   FormalityLevel = "formal"
	FormalityBalanced FormalityLevel = "balanced"
	FormalityCasual   FormalityLevel = "casual"
)

// Emotion is the dominant tone detected in a message
type Emotion string

const (
	EmotionUrgent    Emotion = "urgent"
	EmotionConcerned Emotion = "concerned"
	EmotionPositive  Emotion = "positive"
	EmotionNeutral   Emotion = "neutral"
)

// Difficulty is the reading-difficulty band derived from complexity
type Difficulty string

const (
	DifficultyComplex  Difficulty = "complex"
	DifficultyModerate Difficulty = "moderate"
	DifficultySimple   Difficulty = "simple"
)

// Pace describes how a sender writes
type Pace string

const (
	PaceEnergetic   Pace = "energetic"
	PaceInquisitive Pace = "inquisitive"
	PaceConcise     Pace = "concise"
	PaceDetailed    Pace = "detailed"
)

// ResponseLabel is the 4-band label of a recommended response time
type ResponseLabel string

const (
	ResponseCritical ResponseLabel = "CRITICAL"
	ResponseHigh     ResponseLabel = "HIGH"
	ResponseNormal   ResponseLabel = "NORMAL"
	ResponseLow      ResponseLabel = "LOW"
)

// StyleProfile describes how a message is written
type StyleProfile struct {
	FormalityScore    int            `json:"formality_score"`
	FormalityLevel    FormalityLevel `json:"formality_level"`
	Emotion           Emotion        `json:"emotion"`
	ComplexityScore   int            `json:"complexity_score"`
	ReadingDifficulty Difficulty     `json:"reading_difficulty"`
	Pace              Pace           `json:"communication_pace"`
	WordCount         int            `json:"word_count"`
	ReadTimeMinutes   int            `json:"estimated_read_minutes"`
}

// EntityBundle holds the structured fragments found in a message body
type EntityBundle struct {
	Dates          []string `json:"dates"`
	Times          []string `json:"times"`
	Amounts        []string `json:"monetary_amounts"`
	Phones         []string `json:"phone_numbers"`
	URLs           []string `json:"urls"`
	ActionItems    []string `json:"action_items"`
	HasAttachments bool     `json:"has_attachments"`
}

// ResponsePrediction is the recommended turnaround for a classified message
type ResponsePrediction struct {
	RecommendedHours float64       `json:"recommended_response_hours"`
	Deadline         time.Time     `json:"deadline"`
	PriorityScore    int           `json:"priority_score"`
	Label            ResponseLabel `json:"urgency_label"`
}

// Insight bundles every per-message analysis
type Insight struct {
	Style        StyleProfile       `json:"style"`
	Entities     EntityBundle       `json:"entities"`
	Response     ResponsePrediction `json:"response"`
	Category     string             `json:"category"`
	Relationship string             `json:"relationship"`
}
