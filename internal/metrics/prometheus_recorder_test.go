package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncSampleWrites()
	rec.IncSampleWrites()
	rec.IncDebounceSkips()
	rec.IncNotifications("Potato")
	rec.IncNotifications("Potato")
	rec.IncNotifications("Ranarr")
	rec.ObserveIngestDuration(25 * time.Millisecond)

	if got := testutil.ToFloat64(rec.sampleWrites); got != 2 {
		t.Errorf("expected 2 sample writes, got %v", got)
	}
	if got := testutil.ToFloat64(rec.debounceSkips); got != 1 {
		t.Errorf("expected 1 debounce skip, got %v", got)
	}
	if got := testutil.ToFloat64(rec.notifications.WithLabelValues("Potato")); got != 2 {
		t.Errorf("expected 2 Potato notifications, got %v", got)
	}
}

func TestPrometheusRecorderGauges(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.SetTabSummary(farming.TabHerb, farming.SummaryCompleted)
	rec.SetTabCompletionTime(farming.TabHerb, 0)
	rec.SetTabSummary(farming.TabTree, farming.SummaryInProgress)
	rec.SetTabCompletionTime(farming.TabTree, 1700000000)

	if got := testutil.ToFloat64(rec.tabSummary.WithLabelValues("herb")); got != 3 {
		t.Errorf("expected herb summary gauge 3, got %v", got)
	}
	if got := testutil.ToFloat64(rec.tabCompletion.WithLabelValues("tree")); got != 1700000000 {
		t.Errorf("expected tree completion gauge, got %v", got)
	}
}

func TestNilRecorderMethodsAreSafe(t *testing.T) {
	var rec *PrometheusRecorder
	rec.ObserveIngestDuration(time.Second)
	rec.IncSampleWrites()
	rec.IncDebounceSkips()
	rec.IncNotifications("Potato")
	rec.SetTabSummary(farming.TabHerb, farming.SummaryUnknown)
	rec.SetTabCompletionTime(farming.TabHerb, -1)
}

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = &PrometheusRecorder{}
}
