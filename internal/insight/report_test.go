package insight

import (
	"testing"
	"time"

	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/core"
)

func TestBuildReport(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	items := []core.Triaged{
		{
			Message: &core.Message{ID: "m1", Sender: "a@company.com", Subject: "Budget Review", Body: "Urgent: review by the deadline."},
			Result:  &core.ClassificationResult{MessageID: "m1", Intent: core.IntentActionRequired, Urgency: core.UrgencyHigh},
		},
		{
			Message: &core.Message{ID: "m2", Sender: "b@company.com", Subject: "RE: Budget Review", Body: "Looks fine."},
			Result:  &core.ClassificationResult{MessageID: "m2", Intent: core.IntentInformational, Urgency: core.UrgencyLow},
		},
		{
			Message: &core.Message{ID: "m3", Sender: "c@vendor.com", Subject: "Invoice", Body: "Amount due $1,200.00"},
			Result:  &core.ClassificationResult{MessageID: "m3", Intent: core.IntentInformational, Urgency: core.UrgencyMedium},
		},
	}

	report := BuildReport("samples", items, analysis.NewAnalyzer(analysis.DefaultLexicon(), func() time.Time { return now }), now)

	if report.Source != "samples" || !report.GeneratedAt.Equal(now) {
		t.Errorf("header = %s / %v", report.Source, report.GeneratedAt)
	}
	if len(report.Messages) != 3 {
		t.Fatalf("got %d message reports", len(report.Messages))
	}
	for i, mr := range report.Messages {
		if mr.MessageID != items[i].Message.ID || mr.Insight == nil {
			t.Errorf("message %d = %+v", i, mr)
		}
	}
	if got := report.Messages[2].Insight.Entities.Amounts; len(got) != 1 || got[0] != "$1,200.00" {
		t.Errorf("amounts = %v", got)
	}

	if len(report.Threads) != 1 {
		t.Fatalf("got %d threads, want 1", len(report.Threads))
	}
	thread := report.Threads[0]
	if thread.Subject != "Budget Review" || len(thread.MessageIDs) != 2 || thread.Score.Participants != 2 {
		t.Errorf("thread = %+v", thread)
	}

	if report.Summary.TotalMessages != 3 || report.Summary.HighPriorityCount != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestBuildReport_WithoutAnalyzer(t *testing.T) {
	items := []core.Triaged{{Message: &core.Message{ID: "m1"}, Result: &core.ClassificationResult{}}}
	report := BuildReport("x", items, nil, time.Time{})
	if report.Messages[0].Insight != nil {
		t.Error("expected no insight without analyzer")
	}
	if report.Threads == nil {
		t.Error("threads should be an empty list, not nil")
	}
}
