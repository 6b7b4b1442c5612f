package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(ConnectAttempts.WithLabelValues("reconnect"))
	RecordConnect(true)
	if got := testutil.ToFloat64(ConnectAttempts.WithLabelValues("reconnect")); got != before+1 {
		t.Fatalf("reconnect attempts: got %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(FramesDropped)
	RecordDropped()
	if got := testutil.ToFloat64(FramesDropped); got != before+1 {
		t.Fatalf("dropped frames: got %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(PicksDispatched.WithLabelValues("failed"))
	RecordPick(false)
	if got := testutil.ToFloat64(PicksDispatched.WithLabelValues("failed")); got != before+1 {
		t.Fatalf("failed picks: got %v, want %v", got, before+1)
	}

	// Histograms have no single value; recording must simply not panic.
	RecordRetry(500 * time.Millisecond)
	RecordFrame("state")
}
