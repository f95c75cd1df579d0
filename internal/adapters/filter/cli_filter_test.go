package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mikey/mail-triage/internal/adapters/source"
	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/insight"
	"github.com/mikey/mail-triage/internal/ports"
	"go.uber.org/zap"
)

var _ ports.MessageFilter = (*CliFilter)(nil)

func newRulesCli(out *bytes.Buffer, verbose, jsonOutput bool) *CliFilter {
	now := func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	rules := core.NewRuleClassifier(core.DefaultVocabulary(), now)
	service := core.NewTriageService(nil, nil, rules, nil, nil, nil, zap.NewNop(), core.TriageOptions{Timeout: time.Second})
	orchestrator := core.NewBatchOrchestrator(service, rules, zap.NewNop(), 4)
	f := NewCliFilter(service, orchestrator, analysis.NewAnalyzer(analysis.DefaultLexicon(), now), zap.NewNop(), out, verbose, jsonOutput)
	f.now = now
	return f
}

func TestCliFilter_RunText(t *testing.T) {
	var out bytes.Buffer
	f := newRulesCli(&out, true, false)

	report, err := f.Run(context.Background(), source.NewSampleSource(nil, 0, nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Messages) != 10 {
		t.Fatalf("got %d messages", len(report.Messages))
	}
	for _, mr := range report.Messages {
		if mr.Result == nil || mr.Result.Source != core.SourceRules {
			t.Errorf("%s: expected a rules result, got %+v", mr.MessageID, mr.Result)
		}
	}

	text := out.String()
	for _, want := range []string{
		"=== Triage Summary (samples) ===",
		"Messages: 10",
		"[sample_006] URGENT: Security Patch Required",
		"Recommendation: ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCliFilter_RunJSON(t *testing.T) {
	var out bytes.Buffer
	f := newRulesCli(&out, false, true)

	if _, err := f.Run(context.Background(), source.NewSampleSource(nil, 2, nil)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var decoded insight.Report
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out.String())
	}
	if decoded.Source != "samples" || len(decoded.Messages) != 2 {
		t.Errorf("decoded report = %s, %d messages", decoded.Source, len(decoded.Messages))
	}
	if decoded.Messages[0].Result.MessageID != "sample_001" {
		t.Errorf("first result = %+v", decoded.Messages[0].Result)
	}
}

func TestCliFilter_ProcessMessage(t *testing.T) {
	var out bytes.Buffer
	f := newRulesCli(&out, false, false)

	msg := &core.Message{
		ID:         "m1",
		Sender:     "boss@company.com",
		Subject:    "Urgent: sign the contract",
		Body:       "Please sign the contract today, it is urgent.",
		ReceivedAt: time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
	}
	result, err := f.ProcessMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if result.MessageID != "m1" || result.Urgency != core.UrgencyHigh {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(out.String(), "[m1] Urgent: sign the contract") {
		t.Errorf("output missing message line:\n%s", out.String())
	}
}
