package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

// summaryStateValue encodes a summary state as a gauge value so dashboards
// can alert on transitions.
func summaryStateValue(state farming.SummaryState) float64 {
	switch state {
	case farming.SummaryEmpty:
		return 1
	case farming.SummaryInProgress:
		return 2
	case farming.SummaryCompleted:
		return 3
	default:
		return 0
	}
}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	ingestDuration prom.Histogram
	sampleWrites   prom.Counter
	debounceSkips  prom.Counter
	notifications  *prom.CounterVec
	tabSummary     *prom.GaugeVec
	tabCompletion  *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.ingestDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "croptrack",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of one ingest cycle including summary refresh",
			Buckets:   prom.DefBuckets,
		})
		pr.sampleWrites = prom.NewCounter(prom.CounterOpts{
			Namespace: "croptrack",
			Name:      "sample_writes_total",
			Help:      "Samples written to the state store",
		})
		pr.debounceSkips = prom.NewCounter(prom.CounterOpts{
			Namespace: "croptrack",
			Name:      "debounce_skips_total",
			Help:      "Sample writes skipped because a fresh same-valued sample exists",
		})
		pr.notifications = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "croptrack",
			Name:      "notifications_total",
			Help:      "Harvest notifications emitted by produce kind",
		}, []string{"produce"})
		pr.tabSummary = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "croptrack",
			Name:      "tab_summary_state",
			Help:      "Per-tab summary state (0 unknown, 1 empty, 2 in progress, 3 completed)",
		}, []string{"tab"})
		pr.tabCompletion = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "croptrack",
			Name:      "tab_completion_time_seconds",
			Help:      "Per-tab max completion epoch time (-1 unknown, 0 completed)",
		}, []string{"tab"})
		reg.MustRegister(pr.ingestDuration, pr.sampleWrites, pr.debounceSkips, pr.notifications, pr.tabSummary, pr.tabCompletion)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveIngestDuration(d time.Duration) {
	if p == nil || p.ingestDuration == nil {
		return
	}
	p.ingestDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSampleWrites() {
	if p == nil || p.sampleWrites == nil {
		return
	}
	p.sampleWrites.Inc()
}

func (p *PrometheusRecorder) IncDebounceSkips() {
	if p == nil || p.debounceSkips == nil {
		return
	}
	p.debounceSkips.Inc()
}

func (p *PrometheusRecorder) IncNotifications(produce string) {
	if p == nil || p.notifications == nil {
		return
	}
	p.notifications.WithLabelValues(produce).Inc()
}

func (p *PrometheusRecorder) SetTabSummary(tab farming.Tab, state farming.SummaryState) {
	if p == nil || p.tabSummary == nil {
		return
	}
	p.tabSummary.WithLabelValues(string(tab)).Set(summaryStateValue(state))
}

func (p *PrometheusRecorder) SetTabCompletionTime(tab farming.Tab, epoch int64) {
	if p == nil || p.tabCompletion == nil {
		return
	}
	p.tabCompletion.WithLabelValues(string(tab)).Set(float64(epoch))
}
