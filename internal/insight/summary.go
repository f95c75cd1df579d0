package insight

import (
	"strings"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

// Recommendations, in decision-table order
const (
	RecommendCrisis   = "URGENT: Prioritize high-risk items immediately. Consider delegating low-priority tasks."
	RecommendWorkload = "High workload detected. Focus on action-required emails first."
	RecommendRisk     = "Multiple urgent items need attention. Review deadlines carefully."
	RecommendBatch    = "Moderate workload. Batch process similar emails for efficiency."
	RecommendCalm     = "Inbox under control. Good time for strategic planning."
)

// risk terms counted once per message body
var riskTerms = []string{"urgent", "deadline"}

// Summarize aggregates a classified batch into workload and risk scores
func Summarize(items []core.Triaged) ExecutiveSummary {
	var highUrgency, actionRequired, riskHits, totalWords int
	for _, item := range items {
		if item.Result != nil {
			if item.Result.Urgency == core.UrgencyHigh {
				highUrgency++
			}
			if item.Result.Intent == core.IntentActionRequired {
				actionRequired++
			}
		}
		if item.Message == nil {
			continue
		}
		body := utils.Fold(item.Message.Body)
		for _, term := range riskTerms {
			if strings.Contains(body, term) {
				riskHits++
			}
		}
		totalWords += len(strings.Fields(item.Message.Body))
	}

	workload := min(100, (3*highUrgency+2*actionRequired)*10)
	risk := min(100, 15*riskHits)

	return ExecutiveSummary{
		TotalMessages:       len(items),
		HighPriorityCount:   highUrgency,
		ActionRequiredCount: actionRequired,
		WorkloadScore:       workload,
		WorkloadLevel:       workloadLevel(workload),
		RiskScore:           risk,
		RiskLevel:           riskLevel(risk),
		ProcessingMinutes:   2*len(items) + totalWords/200,
		Recommendation:      Recommend(workload, risk),
	}
}

// Recommend picks the action text for a workload and risk score
func Recommend(workload, risk int) string {
	switch {
	case workload > 70 && risk > 60:
		return RecommendCrisis
	case workload > 70:
		return RecommendWorkload
	case risk > 60:
		return RecommendRisk
	case workload > 40:
		return RecommendBatch
	default:
		return RecommendCalm
	}
}

func workloadLevel(score int) string {
	switch {
	case score > 70:
		return WorkloadOverloaded
	case score > 40:
		return WorkloadBusy
	default:
		return WorkloadManageable
	}
}

func riskLevel(score int) string {
	switch {
	case score > 60:
		return RiskHigh
	case score > 30:
		return RiskModerate
	default:
		return RiskLow
	}
}
