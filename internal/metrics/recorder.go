package metrics

import (
	"time"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

// Recorder defines observability hooks for the ingest/aggregation cycle.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so components can take a Recorder without
// nil checks.
type Recorder interface {
	ObserveIngestDuration(d time.Duration)
	IncSampleWrites()
	IncDebounceSkips()
	IncNotifications(produce string)
	SetTabSummary(tab farming.Tab, state farming.SummaryState)
	SetTabCompletionTime(tab farming.Tab, epoch int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveIngestDuration(time.Duration)             {}
func (NoopRecorder) IncSampleWrites()                                {}
func (NoopRecorder) IncDebounceSkips()                               {}
func (NoopRecorder) IncNotifications(string)                         {}
func (NoopRecorder) SetTabSummary(farming.Tab, farming.SummaryState) {}
func (NoopRecorder) SetTabCompletionTime(farming.Tab, int64)         {}
