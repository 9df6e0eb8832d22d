package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/farming"
	"git.home.luguber.info/inful/croptrack/internal/statestore"
)

const testCatalog = `
autoweed_sensor_id: 5557
produce:
  - name: Weeds
    item_id: 6055
    marker: weeds
  - name: Potato
    item_id: 1942
tables:
  - name: allotment
    rows:
      - first_value: 0
        count: 4
        produce: Weeds
        state: growing
        stages: 4
        tick_rate: 5
      - first_value: 6
        count: 4
        produce: Potato
        state: growing
        stages: 5
        tick_rate: 10
      - first_value: 10
        produce: Potato
        state: harvestable
        first_stage: 4
        stages: 5
        tick_rate: 0
`

func testTable(t *testing.T) *catalog.GrowthTable {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	table := cat.Table("allotment")
	require.NotNil(t, table)
	return table
}

func TestDecodeAbsentOrMalformed(t *testing.T) {
	table := testTable(t)
	now := int64(10000)

	assert.Nil(t, Decode("", table, false, now), "absent sample")
	assert.Nil(t, Decode("abc:123", table, false, now), "non-numeric value")
	assert.Nil(t, Decode("7:zzz", table, false, now), "non-numeric timestamp")
	assert.Nil(t, Decode("7:0", table, false, now), "zero timestamp")
	assert.Nil(t, Decode("7", table, false, now), "missing timestamp field")
}

func TestDecodeUnmappedValue(t *testing.T) {
	table := testTable(t)
	assert.Nil(t, Decode("99:10000", table, false, int64(10000)))
}

func TestDecodeFreshSample(t *testing.T) {
	table := testTable(t)

	// Potato at stage 1 (value 7), sampled just now. tickrate = 600s.
	now := int64(10000)
	pred := Decode(statestore.EncodeSample(7, now), table, false, now)
	require.NotNil(t, pred)

	assert.Equal(t, "Potato", pred.Produce.Name)
	assert.Equal(t, farming.CropGrowing, pred.CropState)
	assert.Equal(t, 1, pred.Stage)
	assert.Equal(t, 5, pred.Stages)
	// (stages-1-stage + (10000+300)/600) * 600 + 300
	assert.Equal(t, int64((3+17)*600+300), pred.DoneEstimate)
}

func TestDecodeProjectsElapsedTicks(t *testing.T) {
	table := testTable(t)

	// Three tick boundaries pass between sample time and now.
	pred := Decode(statestore.EncodeSample(7, 10000), table, false, int64(11800))
	require.NotNil(t, pred)

	assert.Equal(t, 4, pred.Stage)
	// The estimate projects from the sampled stage, not the advanced one.
	assert.Equal(t, int64((3+17)*600+300), pred.DoneEstimate)
}

func TestDecodeStageClamp(t *testing.T) {
	table := testTable(t)

	// Arbitrarily far in the future the stage pins at stages-1.
	pred := Decode(statestore.EncodeSample(6, 10000), table, false, int64(10000000))
	require.NotNil(t, pred)

	assert.Equal(t, pred.Stages-1, pred.Stage)
	assert.GreaterOrEqual(t, pred.Stage, 0)
}

func TestDecodeStaticState(t *testing.T) {
	table := testTable(t)

	// Harvestable potato has no timed growth; the estimate stays zero.
	pred := Decode(statestore.EncodeSample(10, 10000), table, false, int64(20000))
	require.NotNil(t, pred)

	assert.Equal(t, 4, pred.Stage)
	assert.Equal(t, farming.CropHarvestable, pred.CropState)
	assert.Equal(t, int64(0), pred.DoneEstimate)
}

func TestDecodeAutoweedCollapse(t *testing.T) {
	table := testTable(t)
	now := int64(10000)
	sample := statestore.EncodeSample(1, now)

	// Without autoweed, weeds grow on their own schedule.
	pred := Decode(sample, table, false, now)
	require.NotNil(t, pred)
	assert.Equal(t, 1, pred.Stage)
	assert.Equal(t, 4, pred.Stages)
	assert.NotZero(t, pred.DoneEstimate)

	// With autoweed, weeds collapse to a single static stage.
	pred = Decode(sample, table, true, now)
	require.NotNil(t, pred)
	assert.Equal(t, 0, pred.Stage)
	assert.Equal(t, 1, pred.Stages)
	assert.Equal(t, int64(0), pred.DoneEstimate)
	assert.Equal(t, farming.MarkerWeeds, pred.Produce.Marker)
}
