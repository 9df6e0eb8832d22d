package daemon

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/config"
	"git.home.luguber.info/inful/croptrack/internal/farming"
	"git.home.luguber.info/inful/croptrack/internal/live"
	"git.home.luguber.info/inful/croptrack/internal/notify"
	"git.home.luguber.info/inful/croptrack/internal/statestore"
	"git.home.luguber.info/inful/croptrack/internal/tracker"
)

const testCatalog = `
autoweed_sensor_id: 5557
produce:
  - { name: Weeds, item_id: 6055, marker: weeds }
  - { name: Potato, item_id: 1942 }
tables:
  - name: allotment
    rows:
      - { first_value: 0, count: 4, produce: Weeds, state: growing, stages: 4, tick_rate: 5 }
      - { first_value: 6, count: 4, produce: Potato, state: growing, stages: 5, tick_rate: 10 }
regions:
  - id: 12851
    name: Falador
    patches:
      - { name: falador-north, sensor_id: 4771, tab: allotment, table: allotment, notify: true }
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	return path
}

func newTestGuard(t *testing.T, src live.Source) *Guard {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	tr := tracker.New(cat, statestore.NewMemoryStore(), src, notify.Func(func(string) {}), nil, "test")
	return NewGuard(tr)
}

func TestGuardIngestAndReport(t *testing.T) {
	src := live.NewStaticSource()
	src.SetValue(4771, 7)
	guard := newTestGuard(t, src)

	assert.True(t, guard.Ingest(catalog.Location{RegionID: 12851}))
	report := guard.Report()
	require.Len(t, report, len(farming.Tabs()))
	for _, r := range report {
		if r.Tab == farming.TabAllotment {
			assert.Equal(t, farming.SummaryInProgress, r.State)
		}
	}
}

func TestStatusServerEndpoints(t *testing.T) {
	src := live.NewStaticSource()
	guard := newTestGuard(t, src)
	guard.Reset()

	srv := NewStatusServer(":0", guard, nil)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/summaries", nil))
	require.Equal(t, 200, rec.Code)

	var report []tracker.TabReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report, len(farming.Tabs()))

	// No registry wired: the metrics endpoint is absent.
	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestDaemonPoll(t *testing.T) {
	src := live.NewStaticSource()
	src.SetValue(4771, 7)
	guard := newTestGuard(t, src)

	cfg := &config.Config{Catalog: writeCatalog(t)}
	d, err := New(cfg, guard, src, src, nil)
	require.NoError(t, err)
	defer func() { _ = d.watcher.Stop() }()

	// Without a location the poll is a no-op.
	d.poll(t.Context())
	assert.Equal(t, farming.SummaryUnknown, guard.Report()[0].State)

	src.SetLocation(catalog.Location{RegionID: 12851})
	d.poll(t.Context())
	assert.Equal(t, farming.SummaryInProgress, guard.Report()[0].State)
}
