package daemon

import (
	"sync"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/tracker"
)

// Guard serializes access to the tracker, which performs no locking of its
// own. The poll job, the catalog reload and HTTP reads all go through it.
type Guard struct {
	mu sync.Mutex
	tr *tracker.Tracker
}

// NewGuard wraps a tracker for concurrent callers.
func NewGuard(tr *tracker.Tracker) *Guard {
	return &Guard{tr: tr}
}

// Ingest runs one tracker ingest cycle.
func (g *Guard) Ingest(loc catalog.Location) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tr.Ingest(loc)
}

// Reset clears and recomputes all summaries.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tr.Reset()
}

// ReplaceCatalog swaps the catalog and recomputes summaries.
func (g *Guard) ReplaceCatalog(cat *catalog.Catalog) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tr.ReplaceCatalog(cat)
}

// Report snapshots every tab's summary.
func (g *Guard) Report() []tracker.TabReport {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tr.Report()
}
