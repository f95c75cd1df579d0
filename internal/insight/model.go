package insight

import "github.com/mikey/mail-triage/internal/core"

// ThreadChain is a group of messages inferred to belong to one conversation
type ThreadChain struct {
	Subject  string          `json:"subject"`
	Messages []*core.Message `json:"messages"`
	Size     int             `json:"thread_size"`
}

// ThreadScore describes the engagement of a thread chain
type ThreadScore struct {
	Length           int    `json:"thread_length"`
	Participants     int    `json:"unique_participants"`
	MostActiveSender string `json:"most_active_sender"`
	TotalWords       int    `json:"total_word_count"`
	Intensity        int    `json:"thread_intensity_score"`
	Importance       string `json:"estimated_importance"`
}

// Workload levels
const (
	WorkloadOverloaded = "OVERLOADED"
	WorkloadBusy       = "BUSY"
	WorkloadManageable = "MANAGEABLE"
)

// Risk levels
const (
	RiskHigh     = "HIGH"
	RiskModerate = "MODERATE"
	RiskLow      = "LOW"
)

// Thread importance bands
const (
	ImportanceCritical = "critical"
	ImportanceHigh     = "high"
	ImportanceModerate = "moderate"
)

// ExecutiveSummary is the batch-level aggregate of workload and risk
type ExecutiveSummary struct {
	TotalMessages       int    `json:"total_messages"`
	HighPriorityCount   int    `json:"high_priority_count"`
	ActionRequiredCount int    `json:"action_required_count"`
	WorkloadScore       int    `json:"workload_score"`
	WorkloadLevel       string `json:"workload_level"`
	RiskScore           int    `json:"risk_score"`
	RiskLevel           string `json:"risk_level"`
	ProcessingMinutes   int    `json:"estimated_processing_minutes"`
	Recommendation      string `json:"recommendation"`
}
