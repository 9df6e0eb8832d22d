// Package tracker orchestrates sample ingestion, prediction and per-tab
// aggregation. It owns all mutable tracking state: stored samples (via the
// state store), per-tab summaries and the per-patch notified flags. The
// tracker performs no internal locking; callers must serialize access.
package tracker

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/farming"
	"git.home.luguber.info/inful/croptrack/internal/live"
	"git.home.luguber.info/inful/croptrack/internal/logfields"
	"git.home.luguber.info/inful/croptrack/internal/metrics"
	"git.home.luguber.info/inful/croptrack/internal/notify"
	"git.home.luguber.info/inful/croptrack/internal/predict"
	"git.home.luguber.info/inful/croptrack/internal/statestore"
)

const (
	// sampleFreshnessSeconds is how long a same-valued sample suppresses a
	// rewrite. Tied to the gateway polling cadence together with the
	// decoder's tick offset; do not change without reverification.
	sampleFreshnessSeconds = 5 * 60

	// clockSkewGraceSeconds tolerates stored timestamps slightly ahead of
	// the local clock.
	clockSkewGraceSeconds = 30
)

// Tracker ingests live values, predicts patch growth and maintains per-tab
// summaries, firing a notification exactly once per completion transition.
type Tracker struct {
	cat      *catalog.Catalog
	store    statestore.Store
	src      live.Source
	notifier notify.Notifier
	rec      metrics.Recorder
	root     string
	profile  string
	now      func() int64

	summaries       map[farming.Tab]farming.SummaryState
	completionTimes map[farming.Tab]int64
	notified        map[string]bool
}

// New creates a tracker. A nil recorder disables metrics and a nil
// notifier falls back to logging.
func New(cat *catalog.Catalog, store statestore.Store, src live.Source, notifier notify.Notifier, rec metrics.Recorder, profile string) *Tracker {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if notifier == nil {
		notifier = notify.SlogNotifier{}
	}
	return &Tracker{
		cat:             cat,
		store:           store,
		src:             src,
		notifier:        notifier,
		rec:             rec,
		root:            "croptrack",
		profile:         profile,
		now:             func() int64 { return time.Now().Unix() },
		summaries:       make(map[farming.Tab]farming.SummaryState),
		completionTimes: make(map[farming.Tab]int64),
		notified:        make(map[string]bool),
	}
}

// SetClock overrides the epoch-second clock, for deterministic tests.
func (t *Tracker) SetClock(now func() int64) { t.now = now }

// Ingest updates stored samples from the live-value source for the region
// containing loc. It returns true when any persisted state changed, in
// which case summaries have been refreshed.
func (t *Tracker) Ingest(loc catalog.Location) bool {
	start := time.Now()
	changed := false

	{
		group := statestore.UserGroup(t.root, t.profile)
		autoweed := strconv.Itoa(t.src.ReadValue(t.cat.AutoweedSensorID()))
		stored, _ := t.store.Get(group, statestore.AutoweedKey)
		if stored != autoweed {
			if err := t.store.Set(group, statestore.AutoweedKey, autoweed); err != nil {
				slog.Warn("persist autoweed flag failed", logfields.Group(group), logfields.Error(err))
			} else {
				changed = true
			}
		}
	}

	region := t.cat.Region(loc.RegionID)
	if region != nil && region.InBounds(loc) {
		group := statestore.RegionGroup(t.root, t.profile, region.ID)
		unixNow := t.now()
		for _, patch := range region.Patches {
			key := patch.Key()
			liveValue := strconv.Itoa(t.src.ReadValue(patch.SensorID))

			// Skip the write if the stored sample has the same value and was
			// captured recently. An unparsable timestamp gives no freshness
			// protection and the sample is rewritten.
			if stored, ok := t.store.Get(group, key); ok {
				parts := strings.Split(stored, ":")
				if len(parts) == 2 && parts[0] == liveValue {
					unixTime, err := strconv.ParseInt(parts[1], 10, 64)
					if err != nil {
						unixTime = 0
					}
					if unixTime+sampleFreshnessSeconds > unixNow && unixNow+clockSkewGraceSeconds > unixTime {
						t.rec.IncDebounceSkips()
						continue
					}
				}
			}

			if err := t.store.Set(group, key, liveValue+":"+strconv.FormatInt(unixNow, 10)); err != nil {
				slog.Warn("persist sample failed",
					logfields.Group(group), logfields.Key(key), logfields.Error(err))
				continue
			}
			t.rec.IncSampleWrites()
			changed = true
		}
	}

	if changed {
		t.RefreshSummaries()
	}
	t.rec.ObserveIngestDuration(time.Since(start))
	return changed
}

// Predict decodes the stored sample for a patch into a prediction, or nil
// when no usable sample exists.
func (t *Tracker) Predict(patch *catalog.Patch) *farming.Prediction {
	group := statestore.RegionGroup(t.root, t.profile, patch.Region.ID)
	stored, ok := t.store.Get(group, patch.Key())
	if !ok {
		return nil
	}
	return predict.Decode(stored, patch.Table, t.autoweedEnabled(), t.now())
}

func (t *Tracker) autoweedEnabled() bool {
	v, _ := t.store.Get(statestore.UserGroup(t.root, t.profile), statestore.AutoweedKey)
	return v == strconv.Itoa(int(farming.AutoweedOn))
}

// RefreshSummaries recomputes every tab's summary from current samples and
// fires notifications for patches that completed since the last refresh.
func (t *Tracker) RefreshSummaries() {
	for tab, patches := range t.cat.Tabs() {
		var maxCompletionTime int64
		allUnknown := true
		allEmpty := true

		complete := make(map[farming.Produce]int)
		unixNow := t.now()

		for _, patch := range patches {
			prediction := t.Predict(patch)
			if prediction == nil || !prediction.Produce.Valid() {
				continue // unknown state
			}

			allUnknown = false

			if prediction.Produce.Marker != farming.MarkerNone {
				// Weeds and scarecrows occupy the patch without counting
				// toward readiness.
				continue
			}

			allEmpty = false

			if prediction.DoneEstimate > maxCompletionTime {
				maxCompletionTime = prediction.DoneEstimate
			}

			if prediction.DoneEstimate < unixNow {
				if patch.Notify && !t.notified[patch.ID()] {
					t.notified[patch.ID()] = true
					complete[prediction.Produce]++
				}
			} else {
				// Re-arm: the patch will notify again once it completes.
				t.notified[patch.ID()] = false
			}
		}

		for produce, count := range complete {
			message := readyMessage(produce.Name, count)
			slog.Info("patches ready",
				logfields.Tab(string(tab)), logfields.Produce(produce.Name), logfields.Count(count))
			t.notifier.Notify(message)
			t.rec.IncNotifications(produce.Name)
		}

		var state farming.SummaryState
		var completionTime int64

		switch {
		case allUnknown:
			state = farming.SummaryUnknown
			completionTime = farming.UnknownCompletionTime
		case allEmpty:
			state = farming.SummaryEmpty
			completionTime = farming.UnknownCompletionTime
		case maxCompletionTime <= t.now():
			state = farming.SummaryCompleted
			completionTime = 0
		default:
			state = farming.SummaryInProgress
			completionTime = maxCompletionTime
		}
		t.summaries[tab] = state
		t.completionTimes[tab] = completionTime
		t.rec.SetTabSummary(tab, state)
		t.rec.SetTabCompletionTime(tab, completionTime)
	}
}

func readyMessage(produce string, count int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(count))
	sb.WriteString(" ")
	sb.WriteString(produce)
	sb.WriteString(" patch")
	if count > 1 {
		sb.WriteString("es are")
	} else {
		sb.WriteString(" is")
	}
	sb.WriteString(" ready for harvest")
	return sb.String()
}

// GetSummary returns the tab's summary, or unknown if never computed.
func (t *Tracker) GetSummary(tab farming.Tab) farming.SummaryState {
	state, ok := t.summaries[tab]
	if !ok {
		return farming.SummaryUnknown
	}
	return state
}

// GetCompletionTime returns the epoch second at which every patch in the
// tab will be ready, or -1 when unknown.
func (t *Tracker) GetCompletionTime(tab farming.Tab) int64 {
	completionTime, ok := t.completionTimes[tab]
	if !ok {
		return farming.UnknownCompletionTime
	}
	return completionTime
}

// Reset clears all summaries and completion times and recomputes them from
// currently persisted samples. Used on startup and catalog reload.
func (t *Tracker) Reset() {
	t.summaries = make(map[farming.Tab]farming.SummaryState)
	t.completionTimes = make(map[farming.Tab]int64)
	t.RefreshSummaries()
}

// ReplaceCatalog swaps in a freshly loaded catalog and recomputes all
// summaries against it.
func (t *Tracker) ReplaceCatalog(cat *catalog.Catalog) {
	t.cat = cat
	t.notified = make(map[string]bool)
	t.Reset()
}

// TabReport is one tab's current summary, as exposed over HTTP.
type TabReport struct {
	Tab            farming.Tab          `json:"tab"`
	State          farming.SummaryState `json:"state"`
	CompletionTime int64                `json:"completion_time"`
}

// Report snapshots every tab's summary in stable order.
func (t *Tracker) Report() []TabReport {
	tabs := farming.Tabs()
	reports := make([]TabReport, 0, len(tabs))
	for _, tab := range tabs {
		reports = append(reports, TabReport{
			Tab:            tab,
			State:          t.GetSummary(tab),
			CompletionTime: t.GetCompletionTime(tab),
		})
	}
	return reports
}
