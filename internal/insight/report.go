package insight

import (
	"time"

	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/core"
)

// MessageReport is one triaged message with its pattern analysis
type MessageReport struct {
	MessageID string                     `json:"message_id"`
	Sender    string                     `json:"sender"`
	Subject   string                     `json:"subject"`
	Result    *core.ClassificationResult `json:"classification"`
	Insight   *analysis.Insight          `json:"insight"`
}

// ThreadReport is a detected conversation and its score
type ThreadReport struct {
	Subject    string      `json:"subject"`
	MessageIDs []string    `json:"message_ids"`
	Score      ThreadScore `json:"score"`
}

// Report is everything produced for one batch
type Report struct {
	Source      string           `json:"source"`
	GeneratedAt time.Time        `json:"generated_at"`
	Messages    []MessageReport  `json:"messages"`
	Threads     []ThreadReport   `json:"threads"`
	Summary     ExecutiveSummary `json:"summary"`
}

// BuildReport assembles a report from a classified batch. A nil analyzer
// omits per-message insight.
func BuildReport(source string, items []core.Triaged, analyzer *analysis.Analyzer, now time.Time) Report {
	report := Report{
		Source:      source,
		GeneratedAt: now,
		Messages:    make([]MessageReport, 0, len(items)),
		Threads:     []ThreadReport{},
	}

	messages := make([]*core.Message, 0, len(items))
	for _, item := range items {
		if item.Message == nil {
			continue
		}
		messages = append(messages, item.Message)

		mr := MessageReport{
			MessageID: item.Message.ID,
			Sender:    item.Message.Sender,
			Subject:   item.Message.Subject,
			Result:    item.Result,
		}
		if analyzer != nil {
			mr.Insight = analyzer.Analyze(item.Message, item.Result)
		}
		report.Messages = append(report.Messages, mr)
	}

	for _, chain := range DetectChains(messages) {
		ids := make([]string, 0, len(chain.Messages))
		for _, msg := range chain.Messages {
			ids = append(ids, msg.ID)
		}
		report.Threads = append(report.Threads, ThreadReport{
			Subject:    chain.Subject,
			MessageIDs: ids,
			Score:      ScoreThread(chain),
		})
	}

	report.Summary = Summarize(items)
	return report
}
