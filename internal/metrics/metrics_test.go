package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordClassification(t *testing.T) {
	before := testutil.ToFloat64(ClassificationsTotal.WithLabelValues("rules"))
	RecordClassification("rules")
	RecordClassification("rules")
	if got := testutil.ToFloat64(ClassificationsTotal.WithLabelValues("rules")) - before; got != 2 {
		t.Errorf("rules classifications increased by %v, want 2", got)
	}
}

func TestRecordFailureAndFiltered(t *testing.T) {
	beforeFailure := testutil.ToFloat64(FailuresTotal.WithLabelValues("timeout"))
	beforeFiltered := testutil.ToFloat64(FilteredMessagesTotal.WithLabelValues("High"))

	RecordFailure("timeout")
	RecordFiltered("High")

	if got := testutil.ToFloat64(FailuresTotal.WithLabelValues("timeout")) - beforeFailure; got != 1 {
		t.Errorf("timeout failures increased by %v, want 1", got)
	}
	if got := testutil.ToFloat64(FilteredMessagesTotal.WithLabelValues("High")) - beforeFiltered; got != 1 {
		t.Errorf("filtered High messages increased by %v, want 1", got)
	}
}

func TestRecordBreakerState(t *testing.T) {
	RecordBreakerState("model-test", 2)
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("model-test")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
}

func TestRecordHistograms(t *testing.T) {
	RecordModelCall("fake-model", "success", 120*time.Millisecond)
	RecordBatch(10)

	if n := testutil.CollectAndCount(ModelCallLatency); n < 1 {
		t.Errorf("expected model latency series, got %d", n)
	}
	if n := testutil.CollectAndCount(BatchSize); n != 1 {
		t.Errorf("expected one batch size series, got %d", n)
	}
}
