package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/croptrack/internal/farming"
)

const sampleCatalog = `
autoweed_sensor_id: 5557
produce:
  - { name: Weeds, item_id: 6055, marker: weeds }
  - { name: Potato, item_id: 1942 }
tables:
  - name: allotment
    rows:
      - { first_value: 0, count: 4, produce: Weeds, state: growing, stages: 4, tick_rate: 5 }
      - { first_value: 6, count: 4, produce: Potato, state: growing, stages: 5, tick_rate: 10 }
      - { first_value: 10, produce: Potato, state: harvestable, first_stage: 4, stages: 5, tick_rate: 0 }
regions:
  - id: 12851
    name: Falador
    bounds:
      - { min_x: 3000, min_y: 3300, max_x: 3100, max_y: 3400 }
    patches:
      - { name: falador-north, sensor_id: 4771, tab: allotment, table: allotment, notify: true }
      - { name: falador-south, sensor_id: 4772, tab: allotment, table: allotment }
`

func TestParseCatalog(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, 5557, cat.AutoweedSensorID())

	region := cat.Region(12851)
	require.NotNil(t, region)
	assert.Equal(t, "Falador", region.Name)
	assert.Len(t, region.Patches, 2)

	patches := cat.Tabs()[farming.TabAllotment]
	require.Len(t, patches, 2)
	assert.True(t, patches[0].Notify)
	assert.False(t, patches[1].Notify)
	assert.Equal(t, "4771", patches[0].Key())
	assert.Equal(t, "12851/4771", patches[0].ID())

	assert.Nil(t, cat.Region(99999))
}

func TestGrowthTableStateFor(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	table := cat.Table("allotment")
	require.NotNil(t, table)

	// Consecutive values inside a row map to consecutive stages.
	for value, stage := range map[int]int{0: 0, 3: 3, 6: 0, 9: 3} {
		st := table.StateFor(value)
		require.NotNil(t, st, "value %d", value)
		assert.Equal(t, stage, st.Stage, "value %d", value)
	}

	st := table.StateFor(10)
	require.NotNil(t, st)
	assert.Equal(t, farming.CropHarvestable, st.CropState)
	assert.Equal(t, 4, st.Stage)
	assert.Equal(t, 0, st.TickRate)

	// Gaps and out-of-range values map to nothing.
	assert.Nil(t, table.StateFor(4))
	assert.Nil(t, table.StateFor(5))
	assert.Nil(t, table.StateFor(99))
}

func TestRegionBounds(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	region := cat.Region(12851)

	assert.True(t, region.InBounds(Location{RegionID: 12851, X: 3054, Y: 3307}))
	assert.True(t, region.InBounds(Location{RegionID: 12851, X: 3000, Y: 3400}), "bounds are inclusive")
	assert.False(t, region.InBounds(Location{RegionID: 12851, X: 2999, Y: 3307}))
	assert.False(t, region.InBounds(Location{RegionID: 99999, X: 3054, Y: 3307}), "wrong region id")

	// A region without bounds accepts any location with its id.
	region.Bounds = nil
	assert.True(t, region.InBounds(Location{RegionID: 12851, X: 0, Y: 0}))
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown produce", `
tables:
  - name: t
    rows:
      - { first_value: 0, produce: Nope, state: growing, stages: 1, tick_rate: 0 }
`},
		{"unknown crop state", `
produce:
  - { name: Potato, item_id: 1 }
tables:
  - name: t
    rows:
      - { first_value: 0, produce: Potato, state: wilting, stages: 1, tick_rate: 0 }
`},
		{"unknown tab", `
produce:
  - { name: Potato, item_id: 1 }
tables:
  - name: t
    rows:
      - { first_value: 0, produce: Potato, state: growing, stages: 1, tick_rate: 0 }
regions:
  - id: 1
    patches:
      - { name: p, sensor_id: 1, tab: orchard, table: t }
`},
		{"unknown table ref", `
regions:
  - id: 1
    patches:
      - { name: p, sensor_id: 1, tab: herb, table: missing }
`},
		{"row overflows stages", `
produce:
  - { name: Potato, item_id: 1 }
tables:
  - name: t
    rows:
      - { first_value: 0, count: 3, produce: Potato, state: growing, stages: 2, tick_rate: 5 }
`},
		{"duplicate sensor in region", `
produce:
  - { name: Potato, item_id: 1 }
tables:
  - name: t
    rows:
      - { first_value: 0, produce: Potato, state: growing, stages: 1, tick_rate: 0 }
regions:
  - id: 1
    patches:
      - { name: a, sensor_id: 7, tab: herb, table: t }
      - { name: b, sensor_id: 7, tab: herb, table: t }
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, cat.Region(12851))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
